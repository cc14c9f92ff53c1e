package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// autoProceedMsg fires when a continue prompt's delay elapses. It carries
// the prompt's sequence number: if the player already continued manually,
// the engine rejects the stale sequence and the timer becomes a no-op, so
// the timer/input race can never double-transition.
type autoProceedMsg struct {
	seq int
}

func autoProceedTimer(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return autoProceedMsg{seq: seq}
	})
}
