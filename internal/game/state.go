package game

// State is the mutable game state for one playthrough. It is owned
// exclusively by the engine and mutated only through the effect processor;
// hosts read it between prompts and replace it wholesale on load.
type State struct {
	SessionID string `json:"session_id"`

	PlayerStats map[string]int  `json:"player_stats"`
	WorldStats  map[string]int  `json:"world_stats"`
	Inventory   map[string]int  `json:"inventory"`
	Flags       map[string]bool `json:"flags"`
	Money       int             `json:"money"`

	CurrentSceneID    string `json:"current_scene_id"`
	CurrentChapterID  string `json:"current_chapter_id"`
	ActiveSideQuestID string `json:"active_side_quest_id,omitempty"`

	UnlockedAchievements map[string]bool `json:"unlocked_achievements"`
	VisitedScenes        map[string]bool `json:"visited_scenes"`
}

func newState(sessionID string) *State {
	return &State{
		SessionID:            sessionID,
		PlayerStats:          map[string]int{},
		WorldStats:           map[string]int{},
		Inventory:            map[string]int{},
		Flags:                map[string]bool{},
		UnlockedAchievements: map[string]bool{},
		VisitedScenes:        map[string]bool{},
	}
}

// Stat returns the named stat for the given scope; absent stats read as 0.
func (s *State) Stat(scope Scope, name string) int {
	if scope == ScopeWorld {
		return s.WorldStats[name]
	}
	return s.PlayerStats[name]
}

// Quantity returns the inventory count for an item; absent items read as 0.
func (s *State) Quantity(itemID string) int {
	return s.Inventory[itemID]
}

// Flag returns the named flag; an absent flag reads as false.
func (s *State) Flag(name string) bool {
	return s.Flags[name]
}

// Clone deep-copies the state. Snapshots handed out for saving must never
// alias the engine's live maps.
func (s *State) Clone() *State {
	c := *s
	c.PlayerStats = cloneIntMap(s.PlayerStats)
	c.WorldStats = cloneIntMap(s.WorldStats)
	c.Inventory = cloneIntMap(s.Inventory)
	c.Flags = cloneBoolMap(s.Flags)
	c.UnlockedAchievements = cloneBoolMap(s.UnlockedAchievements)
	c.VisitedScenes = cloneBoolMap(s.VisitedScenes)
	return &c
}

// normalize backfills nil maps so a state decoded from an old or partial
// snapshot is safe to mutate.
func (s *State) normalize() {
	if s.PlayerStats == nil {
		s.PlayerStats = map[string]int{}
	}
	if s.WorldStats == nil {
		s.WorldStats = map[string]int{}
	}
	if s.Inventory == nil {
		s.Inventory = map[string]int{}
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = map[string]bool{}
	}
	if s.VisitedScenes == nil {
		s.VisitedScenes = map[string]bool{}
	}
}

func cloneIntMap(m map[string]int) map[string]int {
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	c := make(map[string]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
