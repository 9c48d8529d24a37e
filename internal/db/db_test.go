package db

import (
	"os"
	"testing"
	"time"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.Exec("DELETE FROM analytics_events")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	var exists bool
	err := database.QueryRow(`
		SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'analytics_events')
	`).Scan(&exists)
	if err != nil {
		t.Errorf("checking table analytics_events: %v", err)
	}
	if !exists {
		t.Error("table analytics_events does not exist")
	}
}

func TestBatchRecordEvents(t *testing.T) {
	database := getTestDB(t)

	now := time.Now().UTC()
	batch := []EventRecord{
		{Kind: "lobby_created", LobbyCode: "AB3K9", OccurredAt: now},
		{Kind: "word_submitted", LobbyCode: "AB3K9", OccurredAt: now},
		{Kind: "word_submitted", LobbyCode: "AB3K9", OccurredAt: now},
	}
	if err := database.BatchRecordEvents(batch); err != nil {
		t.Fatalf("BatchRecordEvents() error: %v", err)
	}

	words, err := database.TotalEventCount("word_submitted")
	if err != nil {
		t.Fatal(err)
	}
	if words != 2 {
		t.Errorf("word_submitted count = %d, want 2", words)
	}
}

func TestDailyEventCounts(t *testing.T) {
	database := getTestDB(t)

	now := time.Now().UTC()
	if err := database.RecordEvent(EventRecord{Kind: "lobby_created", LobbyCode: "AB3K9", OccurredAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := database.RecordEvent(EventRecord{Kind: "lobby_created", LobbyCode: "CD4L1", OccurredAt: now}); err != nil {
		t.Fatal(err)
	}

	counts, err := database.DailyEventCounts("lobby_created", 7)
	if err != nil {
		t.Fatalf("DailyEventCounts() error: %v", err)
	}
	day := now.Format("2006-01-02")
	if counts[day] != 2 {
		t.Errorf("counts[%s] = %d, want 2", day, counts[day])
	}
}
