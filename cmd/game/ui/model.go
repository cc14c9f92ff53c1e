package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"corsair/internal/debug"
	"corsair/internal/game"
	"corsair/internal/i18n"
	"corsair/internal/observability"
	"corsair/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenSlots
	screenSaveName
	screenPlaying
	screenEnding
	screenEndingName
	screenHallOfFame
	screenError
)

type slotMode int

const (
	slotModeSave slotMode = iota
	slotModeLoad
)

// GameDeps carries the collaborators the UI wires into each playthrough.
type GameDeps struct {
	NewEngine     func() *game.Engine
	Store         *storage.Store
	Loc           *i18n.Localizer
	Debug         *debug.Logger
	MaxSaveSlots  int
	HallOfFameMax int
}

type Model struct {
	deps GameDeps
	ctx  context.Context

	width  int
	height int

	screen screen
	cursor int

	engine *game.Engine
	prompt *game.Prompt
	toasts []string

	slots    []*storage.SlotSummary
	slotMode slotMode
	saveSlot int

	nameInput textinput.Model

	ending  *game.EndingResult
	hall    []storage.HallOfFameEntry
	lastErr string
}

func NewModel(deps GameDeps) Model {
	ti := textinput.New()
	ti.CharLimit = 32

	return Model{
		deps:      deps,
		ctx:       context.Background(),
		screen:    screenMenu,
		nameInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// startPlaythrough spins up a fresh engine and enters the initial scene.
func (m Model) startPlaythrough() (Model, tea.Cmd) {
	m.engine = m.deps.NewEngine()
	m.ctx = observability.WithSessionID(context.Background(), m.engine.State().SessionID)
	m.toasts = nil
	m.ending = nil

	prompt, err := m.engine.Start(m.ctx)
	return m.acceptPrompt(prompt, err)
}

func (m Model) tr(key string, vars map[string]string) string {
	return m.deps.Loc.Get(key, vars)
}
