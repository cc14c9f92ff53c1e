package game

import (
	"strings"

	"github.com/google/uuid"
)

// Default caps applied when the story data does not declare one.
const (
	DefaultStatCap  = 100
	DefaultMaxStack = 99
)

// SentinelPrefix marks a transition target that is not a scene id but an
// opaque instruction for the host (e.g. "menu:main"). The engine forwards
// the instruction untouched and never treats it as a content error.
const SentinelPrefix = "menu:"

func IsSentinel(id string) bool {
	return strings.HasPrefix(id, SentinelPrefix)
}

// SentinelInstruction strips the prefix from a sentinel target.
func SentinelInstruction(id string) string {
	return id[len(SentinelPrefix):]
}

type Scene struct {
	ID               string   `yaml:"id"`
	Background       string   `yaml:"background,omitempty"`
	TextKey          string   `yaml:"text_key"`
	Choices          []Choice `yaml:"choices,omitempty"`
	OnEnterEffects   []Effect `yaml:"on_enter_effects,omitempty"`
	OnExitEffects    []Effect `yaml:"on_exit_effects,omitempty"`
	NextSceneDefault string   `yaml:"next_scene_default,omitempty"`
	AutoProceedMS    int      `yaml:"auto_proceed_ms,omitempty"`
	// PlayerControllable defaults to true when omitted in data.
	PlayerControllable *bool `yaml:"player_controllable,omitempty"`
	// ResolvesEnding marks a terminal point: entering this scene runs
	// implicit ending resolution after its on-enter effects.
	ResolvesEnding bool `yaml:"resolves_ending,omitempty"`
}

func (s *Scene) Controllable() bool {
	return s.PlayerControllable == nil || *s.PlayerControllable
}

type Choice struct {
	ID            string      `yaml:"id"`
	TextKey       string      `yaml:"text_key"`
	TargetSceneID string      `yaml:"target_scene_id"`
	Effects       []Effect    `yaml:"effects,omitempty"`
	Conditions    []Condition `yaml:"conditions,omitempty"`
}

type Chapter struct {
	ID               string      `yaml:"id"`
	SceneIDs         []string    `yaml:"scene_ids"`
	OpeningCutscene  string      `yaml:"opening_cutscene,omitempty"`
	ClosingCutscene  string      `yaml:"closing_cutscene,omitempty"`
	UnlockConditions []Condition `yaml:"unlock_conditions,omitempty"`
}

type ReturnPoint struct {
	CompletionFlag     string `yaml:"completion_flag"`
	SceneIDIfCompleted string `yaml:"scene_if_completed"`
	SceneIDIfFailed    string `yaml:"scene_if_failed,omitempty"`
	SceneIDDefault     string `yaml:"scene_default"`
}

type SideQuest struct {
	ID                     string      `yaml:"id"`
	StartingSceneID        string      `yaml:"starting_scene_id"`
	SceneSequence          []string    `yaml:"scene_sequence"`
	ReturnPoint            ReturnPoint `yaml:"return_point"`
	RewardsOnCompletion    []Effect    `yaml:"rewards_on_completion,omitempty"`
	AvailabilityConditions []Condition `yaml:"availability_conditions,omitempty"`
	Repeatable             bool        `yaml:"repeatable,omitempty"`
}

func (q *SideQuest) lastSceneID() string {
	if len(q.SceneSequence) == 0 {
		return q.StartingSceneID
	}
	return q.SceneSequence[len(q.SceneSequence)-1]
}

type Ending struct {
	ID                   string      `yaml:"id"`
	CutsceneSequenceIDs  []string    `yaml:"cutscenes,omitempty"`
	Conditions           []Condition `yaml:"conditions,omitempty"`
	Priority             int         `yaml:"priority"`
	UnlocksAchievementID string      `yaml:"unlocks_achievement,omitempty"`
}

type Achievement struct {
	ID         string      `yaml:"id"`
	Conditions []Condition `yaml:"conditions"`
	Hidden     bool        `yaml:"hidden,omitempty"`
	Points     int         `yaml:"points,omitempty"`
}

type Item struct {
	ID       string `yaml:"id"`
	MaxStack int    `yaml:"max_stack,omitempty"`
}

// InitialValues is the new-game template the first State is built from.
type InitialValues struct {
	PlayerStats map[string]int  `yaml:"player_stats,omitempty"`
	WorldStats  map[string]int  `yaml:"world_stats,omitempty"`
	Inventory   map[string]int  `yaml:"inventory,omitempty"`
	Flags       map[string]bool `yaml:"flags,omitempty"`
	Money       int             `yaml:"money,omitempty"`
}

// Story is the immutable narrative definition set, loaded once at startup.
// Slice order is declaration order and is semantically meaningful for
// endings (tie-break) and chapters (auto-advance).
type Story struct {
	Title          string         `yaml:"title"`
	InitialSceneID string         `yaml:"initial_scene_id"`
	Initial        InitialValues  `yaml:"initial,omitempty"`
	StatCaps       map[string]int `yaml:"stat_caps,omitempty"`
	Items          []Item         `yaml:"items,omitempty"`
	Scenes         []Scene        `yaml:"scenes"`
	Chapters       []Chapter      `yaml:"chapters,omitempty"`
	SideQuests     []SideQuest    `yaml:"side_quests,omitempty"`
	Endings        []Ending       `yaml:"endings,omitempty"`
	Achievements   []Achievement  `yaml:"achievements,omitempty"`

	sceneIndex map[string]*Scene
	itemIndex  map[string]*Item
}

// Index builds the lookup tables. Content loading calls this once after
// unmarshalling; it must run before the story is handed to an engine.
func (st *Story) Index() {
	st.sceneIndex = make(map[string]*Scene, len(st.Scenes))
	for i := range st.Scenes {
		st.sceneIndex[st.Scenes[i].ID] = &st.Scenes[i]
	}
	st.itemIndex = make(map[string]*Item, len(st.Items))
	for i := range st.Items {
		st.itemIndex[st.Items[i].ID] = &st.Items[i]
	}
}

func (st *Story) Scene(id string) (*Scene, bool) {
	sc, ok := st.sceneIndex[id]
	return sc, ok
}

func (st *Story) SceneIDs() []string {
	ids := make([]string, 0, len(st.Scenes))
	for i := range st.Scenes {
		ids = append(ids, st.Scenes[i].ID)
	}
	return ids
}

func (st *Story) StatCap(name string) int {
	if c, ok := st.StatCaps[name]; ok {
		return c
	}
	return DefaultStatCap
}

func (st *Story) MaxStack(itemID string) int {
	if it, ok := st.itemIndex[itemID]; ok && it.MaxStack > 0 {
		return it.MaxStack
	}
	return DefaultMaxStack
}

func (st *Story) ChapterByID(id string) *Chapter {
	for i := range st.Chapters {
		if st.Chapters[i].ID == id {
			return &st.Chapters[i]
		}
	}
	return nil
}

// NextChapter returns the chapter declared after the given one, or nil when
// the given chapter is last or unknown.
func (st *Story) NextChapter(id string) *Chapter {
	for i := range st.Chapters {
		if st.Chapters[i].ID == id && i+1 < len(st.Chapters) {
			return &st.Chapters[i+1]
		}
	}
	return nil
}

func (st *Story) SideQuestByID(id string) *SideQuest {
	for i := range st.SideQuests {
		if st.SideQuests[i].ID == id {
			return &st.SideQuests[i]
		}
	}
	return nil
}

func (st *Story) sideQuestByStartScene(sceneID string) *SideQuest {
	for i := range st.SideQuests {
		if st.SideQuests[i].StartingSceneID == sceneID {
			return &st.SideQuests[i]
		}
	}
	return nil
}

func (st *Story) EndingByID(id string) *Ending {
	for i := range st.Endings {
		if st.Endings[i].ID == id {
			return &st.Endings[i]
		}
	}
	return nil
}

func (st *Story) AchievementByID(id string) *Achievement {
	for i := range st.Achievements {
		if st.Achievements[i].ID == id {
			return &st.Achievements[i]
		}
	}
	return nil
}

// NewState builds a fresh playthrough state from the initial-values template.
func (st *Story) NewState() *State {
	s := newState(uuid.NewString())
	for k, v := range st.Initial.PlayerStats {
		s.PlayerStats[k] = v
	}
	for k, v := range st.Initial.WorldStats {
		s.WorldStats[k] = v
	}
	for k, v := range st.Initial.Inventory {
		s.Inventory[k] = v
	}
	for k, v := range st.Initial.Flags {
		s.Flags[k] = v
	}
	s.Money = st.Initial.Money
	s.CurrentSceneID = st.InitialSceneID
	if len(st.Chapters) > 0 {
		s.CurrentChapterID = st.Chapters[0].ID
	}
	return s
}
