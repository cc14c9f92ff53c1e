package game

// unlockAchievements re-scans every locked achievement against the current
// state. The scan is exhaustive: one unlocking never short-circuits the
// rest. It runs after every effect-list application and scene transition.
func (e *Engine) unlockAchievements(events *[]Event) {
	for i := range e.story.Achievements {
		a := &e.story.Achievements[i]
		if e.state.UnlockedAchievements[a.ID] {
			continue
		}
		if !e.eval.All(a.Conditions, e.state) {
			continue
		}
		e.state.UnlockedAchievements[a.ID] = true
		*events = append(*events, Event{Type: EventAchievementUnlocked, ID: a.ID})
		e.log.Printf("achievement unlocked: %s", a.ID)
	}
}

// Score is the hall-of-fame score for a finished playthrough: remaining
// money plus the point values of every unlocked achievement.
func Score(st *Story, s *State) int {
	score := s.Money
	for i := range st.Achievements {
		if s.UnlockedAchievements[st.Achievements[i].ID] {
			score += st.Achievements[i].Points
		}
	}
	return score
}
