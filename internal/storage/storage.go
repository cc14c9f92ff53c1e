// Package storage persists save slots and the hall of fame in sqlite.
// It is a collaborator of the engine, never a dependency of it: the engine
// hands out state snapshots and the host decides when to store them.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"corsair/internal/game"
)

// ErrSlotEmpty is returned by Load when the slot holds no save.
var ErrSlotEmpty = errors.New("save slot is empty")

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		saved_at DATETIME NOT NULL,
		state TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hall_of_fame (
		id TEXT PRIMARY KEY,
		player_name TEXT NOT NULL,
		ending_id TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		achievements TEXT NOT NULL,
		score INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_hof_score ON hall_of_fame(score DESC, recorded_at ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Snapshot is a full saved playthrough: the serialized game state plus a
// player-facing name and timestamp.
type Snapshot struct {
	Name    string
	SavedAt time.Time
	State   *game.State
}

// SlotSummary is what the load menu shows for an occupied slot.
type SlotSummary struct {
	Slot      int
	Name      string
	SavedAt   time.Time
	SceneID   string
	ChapterID string
	Money     int
}

// Save writes a snapshot into a slot, replacing any previous occupant.
// A failed save never corrupts the slot: the write is a single statement.
func (s *Store) Save(slot int, snap Snapshot) error {
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO saves (slot, name, saved_at, state)
		VALUES (?, ?, ?, ?)
	`, slot, snap.Name, snap.SavedAt.UTC(), string(stateJSON))
	if err != nil {
		return fmt.Errorf("failed to write save slot %d: %w", slot, err)
	}
	return nil
}

// Load reads a snapshot back; ErrSlotEmpty when the slot was never saved
// or has been deleted.
func (s *Store) Load(slot int) (*Snapshot, error) {
	var (
		name      string
		savedAt   time.Time
		stateJSON string
	)
	err := s.db.QueryRow(`SELECT name, saved_at, state FROM saves WHERE slot = ?`, slot).
		Scan(&name, &savedAt, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot %d: %w", slot, err)
	}

	var state game.State
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to decode save slot %d: %w", slot, err)
	}
	return &Snapshot{Name: name, SavedAt: savedAt, State: &state}, nil
}

func (s *Store) Delete(slot int) error {
	if _, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("failed to delete save slot %d: %w", slot, err)
	}
	return nil
}

// ListSlots returns maxSlots entries in slot order; unoccupied slots are
// nil so the menu can render empty rows in place.
func (s *Store) ListSlots(maxSlots int) ([]*SlotSummary, error) {
	rows, err := s.db.Query(`SELECT slot, name, saved_at, state FROM saves WHERE slot < ? ORDER BY slot`, maxSlots)
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	defer rows.Close()

	slots := make([]*SlotSummary, maxSlots)
	for rows.Next() {
		var (
			slot      int
			name      string
			savedAt   time.Time
			stateJSON string
		)
		if err := rows.Scan(&slot, &name, &savedAt, &stateJSON); err != nil {
			return nil, fmt.Errorf("failed to scan save slot: %w", err)
		}
		summary := &SlotSummary{Slot: slot, Name: name, SavedAt: savedAt}
		var state game.State
		if err := json.Unmarshal([]byte(stateJSON), &state); err == nil {
			summary.SceneID = state.CurrentSceneID
			summary.ChapterID = state.CurrentChapterID
			summary.Money = state.Money
		}
		slots[slot] = summary
	}
	return slots, rows.Err()
}
