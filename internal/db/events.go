package db

import (
	"fmt"
	"time"
)

type EventRecord struct {
	Kind       string
	LobbyCode  string
	OccurredAt time.Time
}

func (d *DB) RecordEvent(ev EventRecord) error {
	_, err := d.Exec(`
		INSERT INTO analytics_events (kind, lobby_code, occurred_at)
		VALUES ($1, $2, $3)
	`, ev.Kind, ev.LobbyCode, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordEvents(events []EventRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO analytics_events (kind, lobby_code, occurred_at)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.Kind, ev.LobbyCode, ev.OccurredAt); err != nil {
			return fmt.Errorf("recording event in batch: %w", err)
		}
	}

	return tx.Commit()
}

// DailyEventCounts returns how many events of the given kind happened per UTC
// day over the trailing window.
func (d *DB) DailyEventCounts(kind string, days int) (map[string]int, error) {
	rows, err := d.Query(`
		SELECT to_char(occurred_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM analytics_events
		WHERE kind = $1 AND occurred_at > now() - make_interval(days => $2)
		GROUP BY day
		ORDER BY day
	`, kind, days)
	if err != nil {
		return nil, fmt.Errorf("querying daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("scanning daily count: %w", err)
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

// TotalEventCount returns the all-time count for one event kind.
func (d *DB) TotalEventCount(kind string) (int, error) {
	var n int
	err := d.QueryRow(`
		SELECT COUNT(*) FROM analytics_events WHERE kind = $1
	`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}
