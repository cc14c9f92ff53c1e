package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"corsair/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Padding(0, 1)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenMenu:
		body = m.viewMenu()
	case screenSlots:
		body = m.viewSlots()
	case screenSaveName:
		body = m.viewNameInput("ui.save_prompt")
	case screenPlaying:
		body = m.viewPlaying()
	case screenEnding:
		body = m.viewEnding()
	case screenEndingName:
		body = m.viewNameInput("ui.enter_name")
	case screenHallOfFame:
		body = m.viewHallOfFame()
	case screenError:
		body = m.viewError()
	}

	width := m.width - 4
	if width < 20 {
		width = 76
	}
	return panelStyle.Width(width).Render(body)
}

func (m Model) viewMenu() string {
	items := []string{
		m.tr("ui.menu.new_game", nil),
		m.tr("ui.menu.load_game", nil),
		m.tr("ui.menu.hall_of_fame", nil),
		m.tr("ui.menu.quit", nil),
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.tr("ui.title", nil)) + "\n\n")
	for i, item := range items {
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> "+item) + "\n")
		} else {
			s.WriteString(choiceStyle.Render("  "+item) + "\n")
		}
	}
	return s.String()
}

func (m Model) viewSlots() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.tr("ui.menu.load_game", nil)) + "\n\n")
	for i := 0; i < m.deps.MaxSaveSlots; i++ {
		label := m.tr("ui.slot_empty", nil)
		if i < len(m.slots) && m.slots[i] != nil {
			slot := m.slots[i]
			label = fmt.Sprintf("%s — %s (%s)", slot.Name, slot.SceneID, slot.SavedAt.Format("2006-01-02 15:04"))
		}
		line := strconv.Itoa(i+1) + ". " + label
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString(choiceStyle.Render("  "+line) + "\n")
		}
	}
	return s.String()
}

func (m Model) viewNameInput(promptKey string) string {
	return m.tr(promptKey, nil) + "\n\n" + m.nameInput.View()
}

func (m Model) viewPlaying() string {
	if m.prompt == nil {
		return ""
	}

	var s strings.Builder

	st := m.engine.State()
	status := m.tr("ui.money", map[string]string{"amount": strconv.Itoa(st.Money)})
	if st.CurrentChapterID != "" {
		status += "  " + m.tr("ui.chapter", map[string]string{"name": m.tr("chapter."+st.CurrentChapterID, nil)})
	}
	s.WriteString(hintStyle.Render(status) + "\n\n")

	s.WriteString(sceneStyle.Render(m.tr(m.prompt.TextKey, nil)) + "\n\n")

	for _, toast := range m.toasts {
		s.WriteString(toastStyle.Render(toast) + "\n")
	}
	if len(m.toasts) > 0 {
		s.WriteString("\n")
	}

	switch m.prompt.Kind {
	case game.PromptChoices:
		for i, choice := range m.prompt.Choices {
			text := m.tr(choice.TextKey, nil)
			if i == m.cursor {
				s.WriteString(selectedStyle.Render("> "+text) + "\n")
			} else {
				s.WriteString(choiceStyle.Render("  "+text) + "\n")
			}
		}
	case game.PromptContinue:
		if m.prompt.AutoProceedAfter > 0 {
			seconds := strconv.Itoa(int(m.prompt.AutoProceedAfter.Seconds()))
			s.WriteString(hintStyle.Render(m.tr("ui.auto_continue", map[string]string{"seconds": seconds})) + "\n")
		} else {
			s.WriteString(hintStyle.Render(m.tr("ui.continue", nil)) + "\n")
		}
	}

	return s.String()
}

func (m Model) viewEnding() string {
	var s strings.Builder

	name := m.tr("ending."+m.ending.Ending.ID, nil)
	s.WriteString(titleStyle.Render(m.tr("ui.ending_reached", map[string]string{"name": name})) + "\n\n")

	for _, cutscene := range m.ending.Ending.CutsceneSequenceIDs {
		s.WriteString(sceneStyle.Render(m.tr("cutscene."+cutscene, nil)) + "\n\n")
	}

	score := strconv.Itoa(game.Score(m.engine.Story(), m.engine.State()))
	s.WriteString(toastStyle.Render(m.tr("ui.score", map[string]string{"score": score})) + "\n\n")
	s.WriteString(hintStyle.Render(m.tr("ui.continue", nil)) + "\n")
	return s.String()
}

func (m Model) viewHallOfFame() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.tr("ui.menu.hall_of_fame", nil)) + "\n\n")

	if len(m.hall) == 0 {
		s.WriteString(hintStyle.Render(m.tr("ui.hall_empty", nil)) + "\n")
		return s.String()
	}

	for i, entry := range m.hall {
		ending := m.tr("ending."+entry.EndingID, nil)
		line := fmt.Sprintf("%2d. %-20s %6d  %s (%d achievements)",
			i+1, entry.PlayerName, entry.Score, ending, entry.AchievementsUnlocked())
		s.WriteString(choiceStyle.Render(line) + "\n")
	}
	return s.String()
}

func (m Model) viewError() string {
	return errorStyle.Render(m.tr("ui.error", map[string]string{"error": m.lastErr})) + "\n\n" +
		hintStyle.Render(m.tr("ui.continue", nil))
}
