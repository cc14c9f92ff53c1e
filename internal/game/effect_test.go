package game

import (
	"testing"

	"corsair/internal/audio"
)

func testProcessorStory() *Story {
	st := &Story{
		StatCaps: map[string]int{"sanity": 20},
		Items:    []Item{{ID: "rusty_gear", MaxStack: 10}},
	}
	st.Index()
	return st
}

func TestApplyStatChangeClamping(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)

	tests := []struct {
		name  string
		start int
		stat  string
		delta int
		want  int
	}{
		{"within bounds", 5, "sanity", 3, 8},
		{"clamped to cap", 18, "sanity", 10, 20},
		{"clamped to zero", 2, "sanity", -10, 0},
		{"default cap for undeclared stat", 95, "strength", 50, DefaultStatCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState("test")
			s.PlayerStats[tt.stat] = tt.start
			p.Apply([]Effect{{Type: EffectStatChange, Scope: ScopePlayer, Stat: tt.stat, Delta: tt.delta}}, s)
			if got := s.PlayerStats[tt.stat]; got != tt.want {
				t.Errorf("stat %s = %d, want %d", tt.stat, got, tt.want)
			}
		})
	}
}

func TestApplyWorldStatChange(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")

	p.Apply([]Effect{{Type: EffectStatChange, Scope: ScopeWorld, Stat: "alarm_level", Delta: 3}}, s)
	if s.WorldStats["alarm_level"] != 3 {
		t.Errorf("world stat = %d, want 3", s.WorldStats["alarm_level"])
	}
	if _, ok := s.PlayerStats["alarm_level"]; ok {
		t.Error("world stat change must not touch player stats")
	}
}

func TestApplyItemStacking(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)

	t.Run("add clamps at max stack", func(t *testing.T) {
		s := newState("test")
		s.Inventory["rusty_gear"] = 10
		p.Apply([]Effect{{Type: EffectItemAdd, Item: "rusty_gear", Quantity: 3}}, s)
		if got := s.Inventory["rusty_gear"]; got != 10 {
			t.Errorf("quantity = %d, want 10 (max stack)", got)
		}
	})

	t.Run("remove clamps at zero", func(t *testing.T) {
		s := newState("test")
		s.Inventory["rusty_gear"] = 2
		p.Apply([]Effect{{Type: EffectItemRemove, Item: "rusty_gear", Quantity: 5}}, s)
		if got := s.Inventory["rusty_gear"]; got != 0 {
			t.Errorf("quantity = %d, want 0", got)
		}
	})

	t.Run("undeclared item gets default stack", func(t *testing.T) {
		s := newState("test")
		p.Apply([]Effect{{Type: EffectItemAdd, Item: "pebble", Quantity: 500}}, s)
		if got := s.Inventory["pebble"]; got != DefaultMaxStack {
			t.Errorf("quantity = %d, want %d", got, DefaultMaxStack)
		}
	})
}

func TestApplyClampsPerEffectNotBatched(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")
	s.PlayerStats["sanity"] = 15

	// +10 clamps to 20 first, then -5 lands on 15. A batched net of +5
	// would leave 20 instead.
	p.Apply([]Effect{
		{Type: EffectStatChange, Scope: ScopePlayer, Stat: "sanity", Delta: 10},
		{Type: EffectStatChange, Scope: ScopePlayer, Stat: "sanity", Delta: -5},
	}, s)
	if got := s.PlayerStats["sanity"]; got != 15 {
		t.Errorf("sanity = %d, want 15 (clamp must apply per effect)", got)
	}
}

func TestApplyMoneyFloor(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")
	s.Money = 10

	p.Apply([]Effect{{Type: EffectMoneyAdd, Amount: -25}}, s)
	if s.Money != 0 {
		t.Errorf("money = %d, want 0", s.Money)
	}

	p.Apply([]Effect{{Type: EffectMoneyAdd, Amount: 40}}, s)
	if s.Money != 40 {
		t.Errorf("money = %d, want 40", s.Money)
	}
}

func TestApplyFlagSet(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")

	p.Apply([]Effect{{Type: EffectFlagSet, Flag: "gears_delivered", Value: true}}, s)
	if !s.Flags["gears_delivered"] {
		t.Error("flag should be set")
	}
	p.Apply([]Effect{{Type: EffectFlagSet, Flag: "gears_delivered", Value: false}}, s)
	if s.Flags["gears_delivered"] {
		t.Error("flag should be cleared")
	}
}

func TestApplyAudioDispatch(t *testing.T) {
	sink := audio.NewLogSink(nil)
	p := NewProcessor(testProcessorStory(), sink, nil)
	s := newState("test")

	p.Apply([]Effect{
		{Type: EffectMusicChange, Track: "theme_storm"},
		{Type: EffectSfxPlay, Sfx: "cannon_blast"},
		{Type: EffectMusicChange}, // empty track stops music
	}, s)

	if len(sink.Music) != 2 || sink.Music[0] != "theme_storm" || sink.Music[1] != "" {
		t.Errorf("music dispatch = %v, want [theme_storm, stop]", sink.Music)
	}
	if len(sink.Sfx) != 1 || sink.Sfx[0] != "cannon_blast" {
		t.Errorf("sfx dispatch = %v, want [cannon_blast]", sink.Sfx)
	}
}

func TestApplyTerminalDeferredAndFirstWins(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")

	// The terminal directive comes first in the list, but the stat change
	// after it must still apply before control flow transfers.
	terminal := p.Apply([]Effect{
		{Type: EffectTriggerEnding, Ending: "ending_pirate_king"},
		{Type: EffectStatChange, Scope: ScopePlayer, Stat: "karma", Delta: 2},
		{Type: EffectChapterProgress, Chapter: "chapter_high_seas"},
	}, s)

	if terminal == nil {
		t.Fatal("expected a terminal directive")
	}
	if terminal.Kind != TerminalEnding || terminal.ID != "ending_pirate_king" {
		t.Errorf("terminal = %+v, want first-listed trigger_ending", terminal)
	}
	if s.PlayerStats["karma"] != 2 {
		t.Error("state effects after a terminal directive must still apply")
	}
}

func TestApplyUnknownEffectIsNoOp(t *testing.T) {
	p := NewProcessor(testProcessorStory(), nil, nil)
	s := newState("test")
	s.Money = 5

	terminal := p.Apply([]Effect{
		{Type: EffectType("teleport")},
		{Type: EffectMoneyAdd, Amount: 1},
	}, s)

	if terminal != nil {
		t.Error("unknown effect must not produce a terminal")
	}
	if s.Money != 6 {
		t.Error("effects after an unknown type must still run")
	}
}
