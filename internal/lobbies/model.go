package lobbies

import "time"

// State is the lifecycle phase of a lobby.
type State string

const (
	StateWaiting State = "waiting"
	StatePlaying State = "playing"
	// Reserved for the answer-review flow; no command enters these yet.
	StateReviewing State = "reviewing"
	StateCompleted State = "completed"
)

// MaxPlayers is the lobby capacity.
const MaxPlayers = 2

// Categories is the fixed list every round is played against.
var Categories = []string{
	"Surnames",
	"Companies",
	"Countries",
	"Cities",
	"Animals",
	"Plants",
	"Items",
	"Food",
}

// Lobby is a joinable two-player session, addressed by its short code.
// Players are kept in join order.
type Lobby struct {
	Code      string    `json:"lobby_id"`
	Players   []string  `json:"players"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GameState carries the per-round data for a lobby. It is created and
// destroyed together with its Lobby; the outer key of PlayerAnswers is the
// player id, the inner key a category name.
type GameState struct {
	Code           string                       `json:"lobby_id"`
	RoundNumber    int                          `json:"round_number"`
	SelectedLetter string                       `json:"selected_letter,omitempty"`
	Categories     []string                     `json:"categories"`
	PlayerAnswers  map[string]map[string]string `json:"player_answers"`
	TimerStartedAt *time.Time                   `json:"timer_started_at,omitempty"`
	TimerDuration  int                          `json:"timer_duration"`
}
