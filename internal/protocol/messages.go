// Package protocol defines the frames exchanged over the game websocket.
// Every frame is a JSON object with a "type" discriminator; outbound frames
// get one struct each so handlers cannot send half-filled envelopes.
package protocol

// Inbound command types.
const (
	TypeStartGame        = "start_game"
	TypeSubmitAnswer     = "submit_answer"
	TypeSubmitAllAnswers = "submit_all_answers"
	TypePing             = "ping"
)

// ClientMessage is the envelope for every inbound frame. Type selects the
// command and decides which of the remaining fields are read.
type ClientMessage struct {
	Type     string            `json:"type"`
	Category string            `json:"category,omitempty"`
	Answer   string            `json:"answer,omitempty"`
	Answers  map[string]string `json:"answers,omitempty"`
}

// Connected confirms a registration to the connecting player only.
type Connected struct {
	Type     string `json:"type"` // "connected"
	PlayerID string `json:"player_id"`
	LobbyID  string `json:"lobby_id"`
}

// PlayerJoined announces the updated lobby roster to everyone.
type PlayerJoined struct {
	Type        string   `json:"type"` // "player_joined"
	PlayerCount int      `json:"player_count"`
	Players     []string `json:"players"`
}

// GameStarted carries everything a client needs to render the round.
type GameStarted struct {
	Type          string   `json:"type"` // "game_started"
	Letter        string   `json:"letter"`
	Categories    []string `json:"categories"`
	TimerDuration int      `json:"timer_duration"`
	RoundNumber   int      `json:"round_number"`
}

// ErrorMessage is only ever unicast to the requester, never broadcast.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// AnswerSubmitted acknowledges a single-category submission to its sender.
type AnswerSubmitted struct {
	Type     string `json:"type"` // "answer_submitted"
	Category string `json:"category"`
	Answer   string `json:"answer"`
}

// PlayerReady announces that a player handed in its sheet.
type PlayerReady struct {
	Type     string `json:"type"` // "player_ready"
	PlayerID string `json:"player_id"`
}

// AnswersRevealed publishes every player's sheet once the round completes.
type AnswersRevealed struct {
	Type          string                       `json:"type"` // "answers_revealed"
	PlayerAnswers map[string]map[string]string `json:"player_answers"`
}

// Pong answers a client heartbeat.
type Pong struct {
	Type string `json:"type"` // "pong"
}

// PlayerDisconnected reports a dropped peer and the remaining live count.
type PlayerDisconnected struct {
	Type        string `json:"type"` // "player_disconnected"
	PlayerID    string `json:"player_id"`
	PlayerCount int    `json:"player_count"`
}
