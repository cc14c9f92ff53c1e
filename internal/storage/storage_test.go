package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"corsair/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleState() *game.State {
	return &game.State{
		SessionID:            "session-1",
		PlayerStats:          map[string]int{"karma": 5, "reputation_pirate": 8},
		WorldStats:           map[string]int{"alarm_level": 2},
		Inventory:            map[string]int{"rusty_gear": 3},
		Flags:                map[string]bool{"heard_rumor": true},
		Money:                42,
		CurrentSceneID:       "scene_tavern",
		CurrentChapterID:     "chapter_port_royal",
		ActiveSideQuestID:    "quest_gear_merchant",
		UnlockedAchievements: map[string]bool{"ach_first_blood": true},
		VisitedScenes:        map[string]bool{"scene_docks": true, "scene_tavern": true},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	savedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	err := store.Save(0, Snapshot{Name: "Before the storm", SavedAt: savedAt, State: sampleState()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Name != "Before the storm" {
		t.Errorf("name = %q, want %q", snap.Name, "Before the storm")
	}
	if !snap.SavedAt.Equal(savedAt) {
		t.Errorf("saved at = %v, want %v", snap.SavedAt, savedAt)
	}
	if !reflect.DeepEqual(snap.State, sampleState()) {
		t.Errorf("state did not survive the round trip:\ngot  %+v\nwant %+v", snap.State, sampleState())
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	store := openTestStore(t)

	first := sampleState()
	if err := store.Save(1, Snapshot{Name: "first", SavedAt: time.Now(), State: first}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := sampleState()
	second.Money = 999
	if err := store.Save(1, Snapshot{Name: "second", SavedAt: time.Now(), State: second}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load(1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Name != "second" || snap.State.Money != 999 {
		t.Errorf("slot holds %q with money %d, want the second save", snap.Name, snap.State.Money)
	}
}

func TestLoadEmptySlot(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load(3); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Load = %v, want ErrSlotEmpty", err)
	}
}

func TestDeleteSlot(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(2, Snapshot{Name: "doomed", SavedAt: time.Now(), State: sampleState()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(2); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Load after Delete = %v, want ErrSlotEmpty", err)
	}
	// Deleting an already-empty slot is fine.
	if err := store.Delete(2); err != nil {
		t.Errorf("Delete on empty slot: %v", err)
	}
}

func TestListSlots(t *testing.T) {
	store := openTestStore(t)

	st := sampleState()
	if err := store.Save(1, Snapshot{Name: "mid game", SavedAt: time.Now(), State: st}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	slots, err := store.ListSlots(3)
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	if slots[0] != nil || slots[2] != nil {
		t.Error("unoccupied slots must be nil")
	}
	if slots[1] == nil {
		t.Fatal("occupied slot missing from the listing")
	}
	if slots[1].SceneID != "scene_tavern" || slots[1].Money != 42 {
		t.Errorf("summary = %+v, want scene and money from the saved state", slots[1])
	}
}

func TestRecordEndingAndTopEntries(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	entries := []HallOfFameEntry{
		{PlayerName: "Anne", EndingID: "ending_pirate_king", Score: 120, RecordedAt: base,
			UnlockedAchievementIDs: []string{"ach_pirate_king", "ach_first_blood"}},
		{PlayerName: "Bart", EndingID: "ending_privateer", Score: 80, RecordedAt: base.Add(time.Hour)},
		{PlayerName: "Calico", EndingID: "ending_davy_jones", Score: 200, RecordedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if err := store.RecordEnding(e, 10); err != nil {
			t.Fatalf("RecordEnding: %v", err)
		}
	}

	top, err := store.TopEntries(10)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d entries, want 3", len(top))
	}
	want := []string{"Calico", "Anne", "Bart"}
	for i, name := range want {
		if top[i].PlayerName != name {
			t.Errorf("rank %d = %s, want %s", i+1, top[i].PlayerName, name)
		}
	}
	if top[1].AchievementsUnlocked() != 2 {
		t.Errorf("achievements = %d, want 2", top[1].AchievementsUnlocked())
	}
}

func TestRecordEndingEvictsLowestScores(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	scores := []int{50, 150, 100}
	for i, score := range scores {
		entry := HallOfFameEntry{
			PlayerName: "p" + string(rune('a'+i)),
			EndingID:   "ending_default_neutral",
			Score:      score,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.RecordEnding(entry, 2); err != nil {
			t.Fatalf("RecordEnding: %v", err)
		}
	}

	top, err := store.TopEntries(10)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d entries, want the cap of 2", len(top))
	}
	if top[0].Score != 150 || top[1].Score != 100 {
		t.Errorf("kept scores %d and %d, want 150 and 100", top[0].Score, top[1].Score)
	}
}

func TestRecordEndingEvictsOldestAmongEqualScores(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		entry := HallOfFameEntry{
			PlayerName: "tied" + string(rune('a'+i)),
			EndingID:   "ending_default_neutral",
			Score:      100,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.RecordEnding(entry, 2); err != nil {
			t.Fatalf("RecordEnding: %v", err)
		}
	}

	top, err := store.TopEntries(10)
	if err != nil {
		t.Fatalf("TopEntries: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	// Ties keep the older entries; the newest of the tied trio is evicted.
	if top[0].PlayerName != "tieda" || top[1].PlayerName != "tiedb" {
		t.Errorf("kept %s and %s, want the two oldest tied entries", top[0].PlayerName, top[1].PlayerName)
	}
}
