package game

import (
	"math/rand"

	"corsair/internal/debug"
)

type Scope string

const (
	ScopePlayer Scope = "player"
	ScopeWorld  Scope = "world"
)

type Comparator string

const (
	CmpGTE Comparator = ">="
	CmpLTE Comparator = "<="
	CmpGT  Comparator = ">"
	CmpLT  Comparator = "<"
	CmpEQ  Comparator = "=="
	CmpNEQ Comparator = "!="
)

func compare(value int, cmp Comparator, threshold int) (bool, bool) {
	switch cmp {
	case CmpGTE:
		return value >= threshold, true
	case CmpLTE:
		return value <= threshold, true
	case CmpGT:
		return value > threshold, true
	case CmpLT:
		return value < threshold, true
	case CmpEQ:
		return value == threshold, true
	case CmpNEQ:
		return value != threshold, true
	}
	return false, false
}

type ConditionType string

const (
	ConditionStatCheck    ConditionType = "stat_check"
	ConditionItemCheck    ConditionType = "item_check"
	ConditionFlagCheck    ConditionType = "flag_check"
	ConditionMoneyCheck   ConditionType = "money_check"
	ConditionRandomChance ConditionType = "random_chance"
	ConditionChapterCheck ConditionType = "chapter_check"
	ConditionSceneVisited ConditionType = "scene_visited"
)

// Condition is a tagged variant gating choice visibility, ending selection,
// achievement unlocks, and quest availability. Which fields apply depends
// on Type; unused fields stay zero in the story data.
type Condition struct {
	Type ConditionType `yaml:"type"`

	// stat_check
	Stat  string `yaml:"stat,omitempty"`
	Scope Scope  `yaml:"scope,omitempty"`

	// stat_check, item_check, money_check
	Comparator Comparator `yaml:"comparator,omitempty"`
	Value      int        `yaml:"value,omitempty"`

	// item_check
	Item    string `yaml:"item,omitempty"`
	Present *bool  `yaml:"present,omitempty"`

	// flag_check
	Flag     string `yaml:"flag,omitempty"`
	Expected bool   `yaml:"expected,omitempty"`

	// random_chance, percentage in [0,100]
	Chance int `yaml:"chance,omitempty"`

	// chapter_check / scene_visited
	Chapter string `yaml:"chapter,omitempty"`
	Scene   string `yaml:"scene,omitempty"`
}

// Evaluator decides whether conditions hold against a game state. It is
// pure apart from random_chance draws; callers that need a stable outcome
// across recomputations (choice visibility within one scene presentation)
// cache the result rather than re-evaluating.
type Evaluator struct {
	rng *rand.Rand
	log *debug.Logger
}

func NewEvaluator(rng *rand.Rand, log *debug.Logger) *Evaluator {
	return &Evaluator{rng: rng, log: log}
}

// Evaluate reports whether a single condition holds. Unknown condition
// types fail closed with a configuration warning.
func (e *Evaluator) Evaluate(c Condition, s *State) bool {
	switch c.Type {
	case ConditionStatCheck:
		ok, valid := compare(s.Stat(c.Scope, c.Stat), c.Comparator, c.Value)
		if !valid {
			e.log.Warnf("stat_check on %q has unknown comparator %q", c.Stat, c.Comparator)
			return false
		}
		return ok

	case ConditionItemCheck:
		qty := s.Quantity(c.Item)
		if c.Present != nil {
			if *c.Present && qty == 0 {
				return false
			}
			if !*c.Present && qty > 0 {
				return false
			}
		}
		if c.Comparator != "" {
			ok, valid := compare(qty, c.Comparator, c.Value)
			if !valid {
				e.log.Warnf("item_check on %q has unknown comparator %q", c.Item, c.Comparator)
				return false
			}
			return ok
		}
		if c.Present == nil {
			// Neither form specified; default to a presence check.
			return qty > 0
		}
		return true

	case ConditionFlagCheck:
		return s.Flag(c.Flag) == c.Expected

	case ConditionMoneyCheck:
		ok, valid := compare(s.Money, c.Comparator, c.Value)
		if !valid {
			e.log.Warnf("money_check has unknown comparator %q", c.Comparator)
			return false
		}
		return ok

	case ConditionRandomChance:
		return e.rng.Intn(100) < c.Chance

	case ConditionChapterCheck:
		return s.CurrentChapterID == c.Chapter

	case ConditionSceneVisited:
		return s.VisitedScenes[c.Scene]
	}

	e.log.Warnf("unknown condition type %q, failing closed", c.Type)
	return false
}

// All reports whether every condition in the list holds (logical AND).
// An empty list is vacuously satisfied.
func (e *Evaluator) All(conditions []Condition, s *State) bool {
	for _, c := range conditions {
		if !e.Evaluate(c, s) {
			return false
		}
	}
	return true
}
