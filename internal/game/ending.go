package game

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EndingResult reports the terminal narrative outcome of a playthrough.
type EndingResult struct {
	Ending *Ending
	// Explicit is true when a trigger_ending effect named the ending
	// directly, bypassing the multi-candidate scan.
	Explicit bool
}

// selectEnding runs the implicit resolution scan: filter endings to those
// whose conditions all hold, then take the lowest priority number, ties
// broken by declaration order. When nothing matches, fall back to the
// catch-all: the ending with the numerically largest priority, so it only
// wins by elimination.
func selectEnding(endings []Ending, eval *Evaluator, s *State) (*Ending, error) {
	var best *Ending
	for i := range endings {
		en := &endings[i]
		if !eval.All(en.Conditions, s) {
			continue
		}
		if best == nil || en.Priority < best.Priority {
			best = en
		}
	}
	if best != nil {
		return best, nil
	}

	var fallback *Ending
	for i := range endings {
		en := &endings[i]
		if fallback == nil || en.Priority > fallback.Priority {
			fallback = en
		}
	}
	if fallback == nil {
		return nil, &ContentError{ID: s.CurrentSceneID, Reason: "ending resolution triggered but no endings are defined"}
	}
	return fallback, nil
}

func (e *Engine) resolveEnding(ctx context.Context, explicitID string, events *[]Event) (*Prompt, error) {
	_, span := e.tracer.Start(ctx, "ending.resolve",
		trace.WithAttributes(attribute.Bool("ending.explicit", explicitID != "")))
	defer span.End()

	var chosen *Ending
	if explicitID != "" {
		chosen = e.story.EndingByID(explicitID)
		if chosen == nil {
			return nil, &ContentError{ID: explicitID, Reason: "trigger_ending names an unknown ending"}
		}
	} else {
		var err error
		chosen, err = selectEnding(e.story.Endings, e.eval, e.state)
		if err != nil {
			return nil, err
		}
	}
	span.SetAttributes(attribute.String("ending.id", chosen.ID))

	if id := chosen.UnlocksAchievementID; id != "" && !e.state.UnlockedAchievements[id] {
		e.state.UnlockedAchievements[id] = true
		*events = append(*events, Event{Type: EventAchievementUnlocked, ID: id})
	}
	for _, cs := range chosen.CutsceneSequenceIDs {
		*events = append(*events, Event{Type: EventCutscene, ID: cs})
	}

	e.ended = true
	e.log.Printf("playthrough ended: %s", chosen.ID)
	return e.yield(&Prompt{
		Kind:   PromptEnding,
		Ending: &EndingResult{Ending: chosen, Explicit: explicitID != ""},
		Events: *events,
	}), nil
}
