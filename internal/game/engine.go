package game

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"corsair/internal/audio"
	"corsair/internal/debug"
)

// Engine is the narrative state machine: it owns the traversal position,
// decides which choices are visible, applies effects, and resolves endings.
// It processes one scene at a time on a single logical thread; the only
// suspension point is the Prompt boundary, where control returns to the
// host until Choose or Advance is called.
type Engine struct {
	story   *Story
	state   *State
	eval    *Evaluator
	effects *Processor
	log     *debug.Logger
	tracer  trace.Tracer
	sink    audio.Sink
	rngSrc  rand.Source

	started bool
	ended   bool
	seq     int
	prompt  *Prompt

	// pendingNext holds the deferred transition target while a
	// PromptContinue is outstanding.
	pendingNext string
}

type Option func(*Engine)

func WithAudio(sink audio.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

func WithLogger(log *debug.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// WithRandSource fixes the random source used for random_chance conditions.
// Tests use it for deterministic visibility draws.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) { e.rngSrc = src }
}

func New(story *Story, opts ...Option) *Engine {
	e := &Engine{
		story:  story,
		tracer: trace.NewNoopTracerProvider().Tracer("corsair/engine"),
		sink:   audio.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rngSrc == nil {
		e.rngSrc = rand.NewSource(time.Now().UnixNano())
	}
	e.eval = NewEvaluator(rand.New(e.rngSrc), e.log)
	e.effects = NewProcessor(story, e.sink, e.log)
	e.state = story.NewState()
	return e
}

// Story exposes the immutable definitions for hosts (titles, achievement
// metadata, localization keys).
func (e *Engine) Story() *Story { return e.story }

// State exposes the live game state. Hosts must only read it while holding
// a prompt; the engine is never mid-effect-list at that point.
func (e *Engine) State() *State { return e.state }

// Snapshot clones the state for saving. Only call while holding a prompt.
func (e *Engine) Snapshot() *State { return e.state.Clone() }

// Start enters the initial scene and runs traversal to the first prompt.
func (e *Engine) Start(ctx context.Context) (*Prompt, error) {
	if e.started {
		return nil, ErrAlreadyStarted
	}
	e.started = true

	var events []Event
	if ch := e.story.ChapterByID(e.state.CurrentChapterID); ch != nil {
		e.openChapter(ch, &events)
	}
	return e.enterScene(ctx, e.story.InitialSceneID, &events)
}

// Restore replaces the whole game state from a loaded snapshot and
// re-presents the current scene. On-enter effects are not re-run: they
// already applied when the scene was first entered in the saved
// playthrough. Restore is atomic from the engine's perspective and is only
// legal between transitions, i.e. while no call into the engine is running.
func (e *Engine) Restore(ctx context.Context, snapshot *State) (*Prompt, error) {
	sc, ok := e.story.Scene(snapshot.CurrentSceneID)
	if !ok {
		return nil, &ContentError{ID: snapshot.CurrentSceneID, Reason: "snapshot points at an unknown scene"}
	}

	restored := snapshot.Clone()
	restored.normalize()
	e.state = restored
	e.started = true
	e.ended = false
	e.prompt = nil

	var events []Event
	next, prompt, err := e.presentScene(ctx, sc, &events)
	if err != nil || prompt != nil {
		return prompt, err
	}
	return e.enterScene(ctx, next, &events)
}

// Choose executes a visible choice from the pending choices prompt:
// on-exit effects, then the choice's own effects, then the transition.
func (e *Engine) Choose(ctx context.Context, choiceID string) (*Prompt, error) {
	if err := e.checkLive(); err != nil {
		return nil, err
	}
	if e.prompt == nil || e.prompt.Kind != PromptChoices {
		return nil, ErrNoChoicePending
	}

	var chosen *Choice
	for i := range e.prompt.Choices {
		if e.prompt.Choices[i].ID == choiceID {
			chosen = &e.prompt.Choices[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrChoiceNotVisible
	}

	ctx, span := e.tracer.Start(ctx, "choice.select", trace.WithAttributes(
		attribute.String("scene.id", e.state.CurrentSceneID),
		attribute.String("choice.id", chosen.ID),
	))
	defer span.End()

	sc, _ := e.story.Scene(e.state.CurrentSceneID)
	e.prompt = nil

	var events []Event
	next, prompt, err := e.leaveScene(ctx, sc, chosen.TargetSceneID, chosen.Effects, &events)
	if err != nil || prompt != nil {
		return prompt, err
	}
	return e.enterScene(ctx, next, &events)
}

// Advance resumes a continue prompt, either from the host's auto-proceed
// timer or from a manual continue. The seq must match the outstanding
// prompt: when the timer and a manual continue race, the first caller
// consumes the prompt and the loser gets ErrStaleAdvance and must do
// nothing, which is the double-transition guard.
func (e *Engine) Advance(ctx context.Context, seq int) (*Prompt, error) {
	if err := e.checkLive(); err != nil {
		return nil, err
	}
	if seq != e.seq {
		return nil, ErrStaleAdvance
	}
	if e.prompt == nil || e.prompt.Kind != PromptContinue {
		return nil, ErrNoAdvancePending
	}

	sc, _ := e.story.Scene(e.state.CurrentSceneID)
	next := e.pendingNext
	e.prompt = nil
	e.pendingNext = ""

	var events []Event
	nextID, prompt, err := e.leaveScene(ctx, sc, next, nil, &events)
	if err != nil || prompt != nil {
		return prompt, err
	}
	return e.enterScene(ctx, nextID, &events)
}

func (e *Engine) checkLive() error {
	if !e.started {
		return ErrNotStarted
	}
	if e.ended {
		return ErrPlaythroughEnded
	}
	return nil
}

// enterScene is the traversal loop. It follows immediate transitions
// (non-controllable scenes with no delay) until a suspension point or a
// terminal outcome is reached.
func (e *Engine) enterScene(ctx context.Context, id string, events *[]Event) (*Prompt, error) {
	for {
		if IsSentinel(id) {
			return e.yield(&Prompt{
				Kind:        PromptHandoff,
				Instruction: SentinelInstruction(id),
				Events:      *events,
			}), nil
		}

		sc, ok := e.story.Scene(id)
		if !ok {
			return nil, &ContentError{ID: id, Reason: "transition target is not a known scene or sentinel"}
		}

		ctx, span := e.tracer.Start(ctx, "scene.enter",
			trace.WithAttributes(attribute.String("scene.id", id)))

		e.state.CurrentSceneID = id
		e.state.VisitedScenes[id] = true

		if q := e.story.sideQuestByStartScene(id); q != nil && e.state.ActiveSideQuestID != q.ID && e.questAvailable(q) {
			e.state.ActiveSideQuestID = q.ID
			*events = append(*events, Event{Type: EventSideQuestStarted, ID: q.ID})
		}

		terminal := e.effects.Apply(sc.OnEnterEffects, e.state)
		e.unlockAchievements(events)
		if terminal != nil {
			span.End()
			next, prompt, err := e.followTerminal(ctx, terminal, events)
			if err != nil || prompt != nil {
				return prompt, err
			}
			id = next
			continue
		}

		if sc.ResolvesEnding {
			span.End()
			return e.resolveEnding(ctx, "", events)
		}

		next, prompt, err := e.presentScene(ctx, sc, events)
		span.End()
		if err != nil || prompt != nil {
			return prompt, err
		}
		id = next
	}
}

// presentScene computes the visible choices for the current scene and
// either suspends (choices or continue prompt) or reports the immediate
// transition target. The visible set, including any random_chance draws,
// is computed exactly once per scene presentation.
func (e *Engine) presentScene(ctx context.Context, sc *Scene, events *[]Event) (string, *Prompt, error) {
	visible := e.visibleChoices(sc)

	if sc.Controllable() && len(visible) > 0 {
		return "", e.yield(&Prompt{
			Kind:       PromptChoices,
			SceneID:    sc.ID,
			TextKey:    sc.TextKey,
			Background: sc.Background,
			Choices:    visible,
			Events:     *events,
		}), nil
	}

	next := sc.NextSceneDefault
	if next == "" {
		return "", nil, &ContentError{ID: sc.ID, Reason: "dead end: no visible choices and no default transition"}
	}

	if sc.AutoProceedMS > 0 {
		e.pendingNext = next
		return "", e.yield(&Prompt{
			Kind:             PromptContinue,
			SceneID:          sc.ID,
			TextKey:          sc.TextKey,
			Background:       sc.Background,
			AutoProceedAfter: time.Duration(sc.AutoProceedMS) * time.Millisecond,
			Events:           *events,
		}), nil
	}

	nextID, prompt, err := e.leaveScene(ctx, sc, next, nil, events)
	return nextID, prompt, err
}

// leaveScene runs the forward-exit pipeline: on-exit effects, then the
// selected choice's effects, then side-quest return redirection and
// chapter bookkeeping. Terminal directives interrupt the exit; the first
// one across both lists wins.
func (e *Engine) leaveScene(ctx context.Context, sc *Scene, target string, choiceEffects []Effect, events *[]Event) (string, *Prompt, error) {
	terminal := e.effects.Apply(sc.OnExitEffects, e.state)
	if second := e.effects.Apply(choiceEffects, e.state); terminal == nil {
		terminal = second
	} else if second != nil {
		e.log.Warnf("scene %s: choice terminal directive shadowed by on-exit terminal", sc.ID)
	}
	e.unlockAchievements(events)

	if terminal != nil {
		return e.followTerminal(ctx, terminal, events)
	}

	target = e.redirectSideQuestReturn(sc.ID, target, events)
	e.maybeFinishChapter(sc.ID, events)
	return target, nil, nil
}

func (e *Engine) followTerminal(ctx context.Context, t *Terminal, events *[]Event) (string, *Prompt, error) {
	switch t.Kind {
	case TerminalEnding:
		prompt, err := e.resolveEnding(ctx, t.ID, events)
		return "", prompt, err
	case TerminalChapter:
		next, err := e.progressChapter(t.ID, events)
		return next, nil, err
	}
	return "", nil, &ContentError{ID: e.state.CurrentSceneID, Reason: "unknown terminal directive"}
}

func (e *Engine) visibleChoices(sc *Scene) []Choice {
	var visible []Choice
	for _, c := range sc.Choices {
		if e.eval.All(c.Conditions, e.state) {
			visible = append(visible, c)
		}
	}
	return visible
}

func (e *Engine) yield(p *Prompt) *Prompt {
	e.seq++
	p.Seq = e.seq
	e.prompt = p
	return p
}
