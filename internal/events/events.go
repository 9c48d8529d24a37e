package events

import "time"

// Kind identifies an analytics event.
type Kind string

const (
	KindLobbyCreated  Kind = "lobby_created"
	KindPlayerJoined  Kind = "player_joined"
	KindWordSubmitted Kind = "word_submitted"
)

type Event struct {
	Kind       Kind
	LobbyCode  string
	OccurredAt time.Time
}

// Bus carries analytics events from the recorder to the database batch
// writer. Publish never blocks a game action; a full bus drops the event.
type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{Events: make(chan Event, 256)}
}

// Publish enqueues ev and reports whether it fit.
func (b *Bus) Publish(ev Event) bool {
	select {
	case b.Events <- ev:
		return true
	default:
		return false
	}
}
