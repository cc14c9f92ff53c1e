package ui

import (
	"errors"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corsair/internal/game"
	"corsair/internal/storage"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case autoProceedMsg:
		return m.handleAutoProceed(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleAutoProceed(msg autoProceedMsg) (tea.Model, tea.Cmd) {
	if m.engine == nil {
		return m, nil
	}
	prompt, err := m.engine.Advance(m.ctx, msg.seq)
	if errors.Is(err, game.ErrStaleAdvance) || errors.Is(err, game.ErrNoAdvancePending) || errors.Is(err, game.ErrPlaythroughEnded) {
		// The player beat the timer; nothing to do.
		return m, nil
	}
	return m.acceptPrompt(prompt, err)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenSlots:
		return m.updateSlots(msg)
	case screenSaveName:
		return m.updateSaveName(msg)
	case screenPlaying:
		return m.updatePlaying(msg)
	case screenEnding:
		return m.updateEnding(msg)
	case screenEndingName:
		return m.updateEndingName(msg)
	case screenHallOfFame, screenError:
		switch msg.String() {
		case "enter", "esc", "q":
			m.screen = screenMenu
			m.cursor = 0
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const menuItems = 4

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < menuItems-1 {
			m.cursor++
		}
	case "q":
		return m, tea.Quit
	case "enter":
		switch m.cursor {
		case 0:
			return m.startPlaythrough()
		case 1:
			return m.openSlots(slotModeLoad)
		case 2:
			return m.openHallOfFame()
		case 3:
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) openSlots(mode slotMode) (Model, tea.Cmd) {
	slots, err := m.deps.Store.ListSlots(m.deps.MaxSaveSlots)
	if err != nil {
		m.deps.Debug.Printf("failed to list save slots: %v", err)
		m.toasts = append(m.toasts, m.tr("ui.save_failed", map[string]string{"error": err.Error()}))
		return m, nil
	}
	m.slots = slots
	m.slotMode = mode
	m.screen = screenSlots
	m.cursor = 0
	return m, nil
}

func (m Model) openHallOfFame() (Model, tea.Cmd) {
	entries, err := m.deps.Store.TopEntries(10)
	if err != nil {
		m.deps.Debug.Printf("failed to read hall of fame: %v", err)
	}
	m.hall = entries
	m.screen = screenHallOfFame
	return m, nil
}

func (m Model) updateSlots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.deps.MaxSaveSlots-1 {
			m.cursor++
		}
	case "esc", "q":
		if m.slotMode == slotModeSave && m.engine != nil {
			m.screen = screenPlaying
		} else {
			m.screen = screenMenu
		}
		m.cursor = 0
	case "enter":
		if m.slotMode == slotModeSave {
			m.saveSlot = m.cursor
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			m.screen = screenSaveName
			return m, nil
		}
		return m.loadSlot(m.cursor)
	}
	return m, nil
}

func (m Model) loadSlot(slot int) (Model, tea.Cmd) {
	snap, err := m.deps.Store.Load(slot)
	if errors.Is(err, storage.ErrSlotEmpty) {
		return m, nil
	}
	if err != nil {
		m.deps.Debug.Printf("failed to load slot %d: %v", slot, err)
		m.toasts = append(m.toasts, m.tr("ui.save_failed", map[string]string{"error": err.Error()}))
		return m, nil
	}

	m.engine = m.deps.NewEngine()
	m.toasts = nil
	m.ending = nil
	prompt, err := m.engine.Restore(m.ctx, snap.State)
	return m.acceptPrompt(prompt, err)
}

func (m Model) updateSaveName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenPlaying
		return m, nil
	case "enter":
		name := m.nameInput.Value()
		if name == "" {
			name = "Slot " + strconv.Itoa(m.saveSlot+1)
		}
		snap := storage.Snapshot{
			Name:    name,
			SavedAt: time.Now(),
			State:   m.engine.Snapshot(),
		}
		if err := m.deps.Store.Save(m.saveSlot, snap); err != nil {
			// A failed save never touches the in-memory state; report it
			// and play on.
			m.deps.Debug.Printf("save failed: %v", err)
			m.toasts = append(m.toasts, m.tr("ui.save_failed", map[string]string{"error": err.Error()}))
		} else {
			m.toasts = append(m.toasts, m.tr("ui.saved", nil))
		}
		m.screen = screenPlaying
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == nil {
		return m, nil
	}

	switch msg.String() {
	case "s":
		return m.openSlots(slotModeSave)
	case "esc":
		m.screen = screenMenu
		m.cursor = 0
		return m, nil
	}

	switch m.prompt.Kind {
	case game.PromptChoices:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.prompt.Choices)-1 {
				m.cursor++
			}
		case "enter":
			choice := m.prompt.Choices[m.cursor]
			prompt, err := m.engine.Choose(m.ctx, choice.ID)
			return m.acceptPrompt(prompt, err)
		}

	case game.PromptContinue:
		if msg.String() == "enter" {
			prompt, err := m.engine.Advance(m.ctx, m.prompt.Seq)
			if errors.Is(err, game.ErrStaleAdvance) {
				return m, nil
			}
			return m.acceptPrompt(prompt, err)
		}
	}
	return m, nil
}

func (m Model) updateEnding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.screen = screenEndingName
	}
	return m, nil
}

func (m Model) updateEndingName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		name := m.nameInput.Value()
		if name == "" {
			name = "Unknown Corsair"
		}
		m.recordEnding(name)
		return m.openHallOfFame()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) recordEnding(playerName string) {
	st := m.engine.State()
	story := m.engine.Story()

	var unlocked []string
	for i := range story.Achievements {
		if st.UnlockedAchievements[story.Achievements[i].ID] {
			unlocked = append(unlocked, story.Achievements[i].ID)
		}
	}

	entry := storage.HallOfFameEntry{
		PlayerName:             playerName,
		EndingID:               m.ending.Ending.ID,
		UnlockedAchievementIDs: unlocked,
		Score:                  game.Score(story, st),
	}
	if err := m.deps.Store.RecordEnding(entry, m.deps.HallOfFameMax); err != nil {
		m.deps.Debug.Printf("failed to record ending: %v", err)
	}
}

// acceptPrompt folds the engine's next prompt into the model: it renders
// accumulated events as toasts, switches screens, and schedules the
// auto-proceed timer when the prompt asks for one.
func (m Model) acceptPrompt(prompt *game.Prompt, err error) (Model, tea.Cmd) {
	if err != nil {
		m.deps.Debug.Printf("traversal error: %v", err)
		m.lastErr = err.Error()
		m.screen = screenError
		m.engine = nil
		m.prompt = nil
		return m, nil
	}

	m.prompt = prompt
	m.cursor = 0
	m.appendEventToasts(prompt.Events)

	switch prompt.Kind {
	case game.PromptChoices:
		m.screen = screenPlaying
		return m, nil

	case game.PromptContinue:
		m.screen = screenPlaying
		if prompt.AutoProceedAfter > 0 {
			return m, autoProceedTimer(prompt.Seq, prompt.AutoProceedAfter)
		}
		return m, nil

	case game.PromptHandoff:
		// The only sentinel instruction the host recognizes today.
		m.deps.Debug.Printf("host handoff: %s", prompt.Instruction)
		m.screen = screenMenu
		m.engine = nil
		m.prompt = nil
		return m, nil

	case game.PromptEnding:
		m.ending = prompt.Ending
		m.screen = screenEnding
		return m, nil
	}
	return m, nil
}

const maxToasts = 6

func (m *Model) appendEventToasts(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EventAchievementUnlocked:
			name := m.tr("achievement."+ev.ID, nil)
			m.toasts = append(m.toasts, m.tr("ui.achievement_unlocked", map[string]string{"name": name}))
		case game.EventChapterOpened:
			name := m.tr("chapter."+ev.ID, nil)
			m.toasts = append(m.toasts, m.tr("ui.chapter_opened", map[string]string{"name": name}))
		case game.EventSideQuestCompleted:
			name := m.tr("quest."+ev.ID, nil)
			m.toasts = append(m.toasts, m.tr("ui.side_quest_completed", map[string]string{"name": name}))
		case game.EventSideQuestFailed:
			name := m.tr("quest."+ev.ID, nil)
			m.toasts = append(m.toasts, m.tr("ui.side_quest_failed", map[string]string{"name": name}))
		case game.EventCutscene:
			m.toasts = append(m.toasts, m.tr("cutscene."+ev.ID, nil))
		}
	}
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}
