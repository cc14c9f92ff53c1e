package game

import (
	"corsair/internal/audio"
	"corsair/internal/debug"
)

type EffectType string

const (
	EffectStatChange      EffectType = "stat_change"
	EffectItemAdd         EffectType = "item_add"
	EffectItemRemove      EffectType = "item_remove"
	EffectFlagSet         EffectType = "flag_set"
	EffectMoneyAdd        EffectType = "money_add"
	EffectMusicChange     EffectType = "music_change"
	EffectSfxPlay         EffectType = "sfx_play"
	EffectChapterProgress EffectType = "chapter_progress"
	EffectTriggerEnding   EffectType = "trigger_ending"
)

// Effect is a tagged variant mutating game state or dispatching a side
// effect. Which fields apply depends on Type.
type Effect struct {
	Type EffectType `yaml:"type"`

	// stat_change
	Scope Scope  `yaml:"scope,omitempty"`
	Stat  string `yaml:"stat,omitempty"`
	Delta int    `yaml:"delta,omitempty"`

	// item_add / item_remove
	Item     string `yaml:"item,omitempty"`
	Quantity int    `yaml:"quantity,omitempty"`

	// flag_set
	Flag  string `yaml:"flag,omitempty"`
	Value bool   `yaml:"value,omitempty"`

	// money_add
	Amount int `yaml:"amount,omitempty"`

	// music_change / sfx_play
	Track string `yaml:"track,omitempty"`
	Sfx   string `yaml:"sfx,omitempty"`

	// chapter_progress / trigger_ending
	Chapter string `yaml:"chapter,omitempty"`
	Ending  string `yaml:"ending,omitempty"`
}

type TerminalKind int

const (
	TerminalEnding TerminalKind = iota + 1
	TerminalChapter
)

// Terminal is a deferred control-flow directive produced by an effect list.
// The processor never acts on it; the traversal engine does.
type Terminal struct {
	Kind TerminalKind
	ID   string
}

// Processor applies ordered effect lists to game state. Clamps (stat caps,
// item stacks, the money floor) apply after each individual effect, never
// batched, so the state invariants hold even mid-list. Audio dispatch is
// fire-and-forget through the sink.
type Processor struct {
	story *Story
	audio audio.Sink
	log   *debug.Logger
}

func NewProcessor(story *Story, sink audio.Sink, log *debug.Logger) *Processor {
	if sink == nil {
		sink = audio.Nop{}
	}
	return &Processor{story: story, audio: sink, log: log}
}

// Apply runs the effects strictly in list order. Terminal effects
// (trigger_ending, chapter_progress) are deferred until every
// state-mutating effect in the list has run; if more than one appears,
// the first wins and the rest are dropped with a warning, since that is
// a data authoring error.
func (p *Processor) Apply(effects []Effect, s *State) *Terminal {
	var terminal *Terminal

	for _, ef := range effects {
		switch ef.Type {
		case EffectStatChange:
			p.applyStatChange(ef, s)

		case EffectItemAdd:
			qty := s.Inventory[ef.Item] + ef.Quantity
			s.Inventory[ef.Item] = clamp(qty, 0, p.story.MaxStack(ef.Item))

		case EffectItemRemove:
			qty := s.Inventory[ef.Item] - ef.Quantity
			s.Inventory[ef.Item] = clamp(qty, 0, p.story.MaxStack(ef.Item))

		case EffectFlagSet:
			s.Flags[ef.Flag] = ef.Value

		case EffectMoneyAdd:
			s.Money += ef.Amount
			if s.Money < 0 {
				s.Money = 0
			}

		case EffectMusicChange:
			if ef.Track == "" {
				p.audio.StopMusic()
			} else {
				p.audio.PlayMusic(ef.Track)
			}

		case EffectSfxPlay:
			p.audio.PlaySfx(ef.Sfx)

		case EffectChapterProgress:
			if terminal != nil {
				p.log.Warnf("ignoring chapter_progress(%s): effect list already carries a terminal directive", ef.Chapter)
				continue
			}
			terminal = &Terminal{Kind: TerminalChapter, ID: ef.Chapter}

		case EffectTriggerEnding:
			if terminal != nil {
				p.log.Warnf("ignoring trigger_ending(%s): effect list already carries a terminal directive", ef.Ending)
				continue
			}
			terminal = &Terminal{Kind: TerminalEnding, ID: ef.Ending}

		default:
			p.log.Warnf("unknown effect type %q, skipping", ef.Type)
		}
	}

	return terminal
}

func (p *Processor) applyStatChange(ef Effect, s *State) {
	capped := clamp(s.Stat(ef.Scope, ef.Stat)+ef.Delta, 0, p.story.StatCap(ef.Stat))
	if ef.Scope == ScopeWorld {
		s.WorldStats[ef.Stat] = capped
	} else {
		s.PlayerStats[ef.Stat] = capped
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
