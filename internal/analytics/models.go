package analytics

// Snapshot is the wire shape of GET /api/analytics. Field names match what
// the frontend already consumes.
type Snapshot struct {
	TotalLobbiesCreated int            `json:"total_lobbies_created"`
	TotalPlayers        int            `json:"total_players"`
	TotalWordsCreated   int            `json:"total_words_created"`
	DailyStats          map[string]int `json:"daily_stats"`
}
