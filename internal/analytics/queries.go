package analytics

import (
	"fmt"

	"wordclash/internal/db"
	"wordclash/internal/events"
)

// Queries reads persisted analytics out of Postgres. Unlike the in-memory
// recorder, these numbers survive process restarts.
type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

// DailyStats returns lobbies created per UTC day over the trailing window.
func (q *Queries) DailyStats(days int) (map[string]int, error) {
	counts, err := q.DB.DailyEventCounts(string(events.KindLobbyCreated), days)
	if err != nil {
		return nil, fmt.Errorf("loading daily stats: %w", err)
	}
	return counts, nil
}

// Totals returns the all-time persisted counters.
func (q *Queries) Totals() (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.TotalLobbiesCreated, err = q.DB.TotalEventCount(string(events.KindLobbyCreated)); err != nil {
		return snap, fmt.Errorf("loading totals: %w", err)
	}
	if snap.TotalPlayers, err = q.DB.TotalEventCount(string(events.KindPlayerJoined)); err != nil {
		return snap, fmt.Errorf("loading totals: %w", err)
	}
	if snap.TotalWordsCreated, err = q.DB.TotalEventCount(string(events.KindWordSubmitted)); err != nil {
		return snap, fmt.Errorf("loading totals: %w", err)
	}
	return snap, nil
}
