package game

import (
	"errors"
	"fmt"
)

// ContentError is a fatal content fault: the story data directed traversal
// somewhere that does not exist or cannot proceed. It halts the playthrough
// (not the process) and requires host intervention.
type ContentError struct {
	ID         string
	Reason     string
	Suggestion string
}

func (e *ContentError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("content error at %q: %s (did you mean %q?)", e.ID, e.Reason, e.Suggestion)
	}
	return fmt.Sprintf("content error at %q: %s", e.ID, e.Reason)
}

var (
	// ErrStaleAdvance means an auto-proceed or manual continue arrived for
	// a prompt the engine has already moved past. The losing side of the
	// timer/input race gets this and must treat it as a no-op.
	ErrStaleAdvance = errors.New("advance refers to a superseded prompt")

	ErrNotStarted       = errors.New("engine has not been started")
	ErrAlreadyStarted   = errors.New("engine has already been started")
	ErrNoChoicePending  = errors.New("no choice prompt is pending")
	ErrNoAdvancePending = errors.New("no continue prompt is pending")
	ErrChoiceNotVisible = errors.New("choice is not visible in the current prompt")
	ErrPlaythroughEnded = errors.New("playthrough has ended")
)
