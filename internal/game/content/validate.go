package content

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"corsair/internal/debug"
	"corsair/internal/game"
)

// maxSuggestDistance bounds how far a "did you mean" suggestion may be
// from the unknown id before it is more confusing than helpful.
const maxSuggestDistance = 3

var knownConditionTypes = map[game.ConditionType]bool{
	game.ConditionStatCheck:    true,
	game.ConditionItemCheck:    true,
	game.ConditionFlagCheck:    true,
	game.ConditionMoneyCheck:   true,
	game.ConditionRandomChance: true,
	game.ConditionChapterCheck: true,
	game.ConditionSceneVisited: true,
}

var knownEffectTypes = map[game.EffectType]bool{
	game.EffectStatChange:      true,
	game.EffectItemAdd:         true,
	game.EffectItemRemove:      true,
	game.EffectFlagSet:         true,
	game.EffectMoneyAdd:        true,
	game.EffectMusicChange:     true,
	game.EffectSfxPlay:         true,
	game.EffectChapterProgress: true,
	game.EffectTriggerEnding:   true,
}

// Validate checks the story for fatal content faults: unresolved transition
// targets, dead-end scenes, duplicate ids, broken chapter and quest
// references. Recoverable authoring oddities (unknown condition/effect
// types, a catch-all ending that is not last by priority) are logged as
// warnings and left to the engine's runtime fallbacks.
func Validate(st *game.Story, log *debug.Logger) error {
	seen := map[string]bool{}
	for i := range st.Scenes {
		id := st.Scenes[i].ID
		if id == "" {
			return &game.ContentError{ID: fmt.Sprintf("scenes[%d]", i), Reason: "scene has no id"}
		}
		if seen[id] {
			return &game.ContentError{ID: id, Reason: "duplicate scene id"}
		}
		seen[id] = true
	}

	if _, ok := st.Scene(st.InitialSceneID); !ok {
		return unknownScene(st, st.InitialSceneID, "initial scene is not defined")
	}

	for i := range st.Scenes {
		if err := validateScene(st, &st.Scenes[i], log); err != nil {
			return err
		}
	}
	for i := range st.Chapters {
		ch := &st.Chapters[i]
		for _, sid := range ch.SceneIDs {
			if _, ok := st.Scene(sid); !ok {
				return unknownScene(st, sid, fmt.Sprintf("chapter %s references an unknown scene", ch.ID))
			}
		}
		warnConditions(ch.UnlockConditions, "chapter "+ch.ID, log)
	}
	for i := range st.SideQuests {
		if err := validateSideQuest(st, &st.SideQuests[i], log); err != nil {
			return err
		}
	}
	if err := validateEndings(st, log); err != nil {
		return err
	}

	seenAch := map[string]bool{}
	for i := range st.Achievements {
		a := &st.Achievements[i]
		if seenAch[a.ID] {
			return &game.ContentError{ID: a.ID, Reason: "duplicate achievement id"}
		}
		seenAch[a.ID] = true
		warnConditions(a.Conditions, "achievement "+a.ID, log)
	}

	return nil
}

func validateScene(st *game.Story, sc *game.Scene, log *debug.Logger) error {
	for i := range sc.Choices {
		c := &sc.Choices[i]
		if err := checkTarget(st, c.TargetSceneID, fmt.Sprintf("choice %s in scene %s", c.ID, sc.ID)); err != nil {
			return err
		}
		warnConditions(c.Conditions, fmt.Sprintf("choice %s in scene %s", c.ID, sc.ID), log)
		if err := checkEffects(st, c.Effects, fmt.Sprintf("choice %s in scene %s", c.ID, sc.ID), log); err != nil {
			return err
		}
	}
	if sc.NextSceneDefault != "" {
		if err := checkTarget(st, sc.NextSceneDefault, "default transition of scene "+sc.ID); err != nil {
			return err
		}
	}

	// A scene with no choices, no default transition, and no terminal role
	// leaves the player with no escape. Catching it here keeps the failure
	// at load time instead of mid-playthrough.
	if len(sc.Choices) == 0 && sc.NextSceneDefault == "" && !sc.ResolvesEnding && !hasTerminalEffect(sc.OnEnterEffects) {
		return &game.ContentError{ID: sc.ID, Reason: "dead-end scene: no choices, no default transition, no terminal effect"}
	}

	if err := checkEffects(st, sc.OnEnterEffects, "on-enter effects of scene "+sc.ID, log); err != nil {
		return err
	}
	return checkEffects(st, sc.OnExitEffects, "on-exit effects of scene "+sc.ID, log)
}

func validateSideQuest(st *game.Story, q *game.SideQuest, log *debug.Logger) error {
	if _, ok := st.Scene(q.StartingSceneID); !ok {
		return unknownScene(st, q.StartingSceneID, fmt.Sprintf("side quest %s starting scene", q.ID))
	}
	for _, sid := range q.SceneSequence {
		if _, ok := st.Scene(sid); !ok {
			return unknownScene(st, sid, fmt.Sprintf("side quest %s sequence", q.ID))
		}
	}
	rp := q.ReturnPoint
	if rp.CompletionFlag == "" {
		return &game.ContentError{ID: q.ID, Reason: "side quest has no completion flag"}
	}
	for _, target := range []string{rp.SceneIDIfCompleted, rp.SceneIDIfFailed, rp.SceneIDDefault} {
		if target == "" {
			continue
		}
		if err := checkTarget(st, target, "return point of side quest "+q.ID); err != nil {
			return err
		}
	}
	if rp.SceneIDIfCompleted == "" || rp.SceneIDDefault == "" {
		return &game.ContentError{ID: q.ID, Reason: "side quest return point needs completed and default scenes"}
	}
	warnConditions(q.AvailabilityConditions, "side quest "+q.ID, log)
	return checkEffects(st, q.RewardsOnCompletion, "rewards of side quest "+q.ID, log)
}

func validateEndings(st *game.Story, log *debug.Logger) error {
	maxPriority := 0
	var catchAll *game.Ending
	seen := map[string]bool{}
	for i := range st.Endings {
		en := &st.Endings[i]
		if seen[en.ID] {
			return &game.ContentError{ID: en.ID, Reason: "duplicate ending id"}
		}
		seen[en.ID] = true
		if en.Priority > maxPriority {
			maxPriority = en.Priority
		}
		if len(en.Conditions) == 0 && catchAll == nil {
			catchAll = en
		}
		warnConditions(en.Conditions, "ending "+en.ID, log)
		if en.UnlocksAchievementID != "" && st.AchievementByID(en.UnlocksAchievementID) == nil {
			return &game.ContentError{ID: en.UnlocksAchievementID, Reason: "ending " + en.ID + " unlocks an unknown achievement"}
		}
	}
	if catchAll != nil && catchAll.Priority < maxPriority {
		log.Warnf("catch-all ending %s has priority %d but %d exists; it may shadow conditional endings", catchAll.ID, catchAll.Priority, maxPriority)
	}
	return nil
}

func hasTerminalEffect(effects []game.Effect) bool {
	for _, ef := range effects {
		if ef.Type == game.EffectTriggerEnding || ef.Type == game.EffectChapterProgress {
			return true
		}
	}
	return false
}

func checkTarget(st *game.Story, target, where string) error {
	if game.IsSentinel(target) {
		return nil
	}
	if _, ok := st.Scene(target); !ok {
		return unknownScene(st, target, where+" targets an unknown scene")
	}
	return nil
}

func checkEffects(st *game.Story, effects []game.Effect, where string, log *debug.Logger) error {
	for _, ef := range effects {
		if !knownEffectTypes[ef.Type] {
			log.Warnf("%s: unknown effect type %q will be a no-op", where, ef.Type)
			continue
		}
		switch ef.Type {
		case game.EffectTriggerEnding:
			if st.EndingByID(ef.Ending) == nil {
				return &game.ContentError{ID: ef.Ending, Reason: where + ": trigger_ending names an unknown ending"}
			}
		case game.EffectChapterProgress:
			if st.ChapterByID(ef.Chapter) == nil {
				return &game.ContentError{ID: ef.Chapter, Reason: where + ": chapter_progress names an unknown chapter"}
			}
		}
	}
	return nil
}

func warnConditions(conditions []game.Condition, where string, log *debug.Logger) {
	for _, c := range conditions {
		if !knownConditionTypes[c.Type] {
			log.Warnf("%s: unknown condition type %q will fail closed", where, c.Type)
		}
		if c.Type == game.ConditionRandomChance && (c.Chance < 0 || c.Chance > 100) {
			log.Warnf("%s: random_chance of %d is outside [0,100]", where, c.Chance)
		}
	}
}

func unknownScene(st *game.Story, id, reason string) error {
	return &game.ContentError{ID: id, Reason: reason, Suggestion: nearestSceneID(st, id)}
}

// nearestSceneID finds the closest defined scene id by edit distance, for
// "did you mean" diagnostics on typos in story data.
func nearestSceneID(st *game.Story, id string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range st.SceneIDs() {
		if d := levenshtein.ComputeDistance(id, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}
