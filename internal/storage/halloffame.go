package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HallOfFameEntry is one finished playthrough on the leaderboard.
type HallOfFameEntry struct {
	ID                     string
	PlayerName             string
	EndingID               string
	RecordedAt             time.Time
	UnlockedAchievementIDs []string
	Score                  int
}

// AchievementsUnlocked is the count shown next to the score.
func (e HallOfFameEntry) AchievementsUnlocked() int {
	return len(e.UnlockedAchievementIDs)
}

// RecordEnding appends an entry and enforces the table cap: entries beyond
// maxEntries are evicted lowest score first; on equal scores the older
// entry keeps its spot.
func (s *Store) RecordEnding(entry HallOfFameEntry, maxEntries int) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	achievements, err := json.Marshal(entry.UnlockedAchievementIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal achievements: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO hall_of_fame (id, player_name, ending_id, recorded_at, achievements, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.PlayerName, entry.EndingID, entry.RecordedAt.UTC(), string(achievements), entry.Score)
	if err != nil {
		return fmt.Errorf("failed to record ending: %w", err)
	}

	if maxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM hall_of_fame WHERE id NOT IN (
				SELECT id FROM hall_of_fame
				ORDER BY score DESC, recorded_at ASC
				LIMIT ?
			)
		`, maxEntries)
		if err != nil {
			return fmt.Errorf("failed to trim hall of fame: %w", err)
		}
	}
	return nil
}

// TopEntries lists the leaderboard best-first.
func (s *Store) TopEntries(limit int) ([]HallOfFameEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, player_name, ending_id, recorded_at, achievements, score
		FROM hall_of_fame
		ORDER BY score DESC, recorded_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query hall of fame: %w", err)
	}
	defer rows.Close()

	var entries []HallOfFameEntry
	for rows.Next() {
		var (
			entry        HallOfFameEntry
			achievements string
		)
		if err := rows.Scan(&entry.ID, &entry.PlayerName, &entry.EndingID, &entry.RecordedAt, &achievements, &entry.Score); err != nil {
			return nil, fmt.Errorf("failed to scan hall of fame entry: %w", err)
		}
		if err := json.Unmarshal([]byte(achievements), &entry.UnlockedAchievementIDs); err != nil {
			entry.UnlockedAchievementIDs = nil
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
