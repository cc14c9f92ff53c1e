package game

import "time"

type PromptKind int

const (
	// PromptChoices suspends traversal until the host calls Choose with one
	// of the visible choices.
	PromptChoices PromptKind = iota + 1
	// PromptContinue suspends until Advance; if AutoProceedAfter is set the
	// host should also schedule a timed Advance with the same Seq.
	PromptContinue
	// PromptHandoff forwards a sentinel instruction to the host; traversal
	// does not resume.
	PromptHandoff
	// PromptEnding reports the resolved ending; traversal is over.
	PromptEnding
)

// Prompt is the engine's side of the request/response boundary with the
// host: traversal runs until it needs player input (or terminates) and then
// yields one of these. Seq identifies the suspension point; Advance calls
// carrying an older Seq are rejected with ErrStaleAdvance, which is what
// cancels the loser of the auto-proceed/manual-continue race.
type Prompt struct {
	Kind PromptKind
	Seq  int

	SceneID    string
	TextKey    string
	Background string

	// Choices is the visible subset for PromptChoices, filtered once at
	// scene entry; random_chance draws are cached for this presentation.
	Choices []Choice

	// AutoProceedAfter is the auto-transition delay for PromptContinue;
	// zero means wait indefinitely for a manual continue.
	AutoProceedAfter time.Duration

	// Instruction is the sentinel payload for PromptHandoff.
	Instruction string

	Ending *EndingResult

	// Events accumulated during the transition that produced this prompt:
	// achievement unlocks, chapter boundaries, cutscene handoffs.
	Events []Event
}

type EventType string

const (
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventChapterOpened       EventType = "chapter_opened"
	EventChapterClosed       EventType = "chapter_closed"
	EventCutscene            EventType = "cutscene"
	EventSideQuestCompleted  EventType = "side_quest_completed"
	EventSideQuestFailed     EventType = "side_quest_failed"
	EventSideQuestStarted    EventType = "side_quest_started"
)

type Event struct {
	Type EventType
	ID   string
}
