package analytics

import (
	"log"
	"sync"
	"time"

	"wordclash/internal/events"
)

const dayFormat = "2006-01-02"

// Recorder keeps the in-memory analytics counters the registries increment
// as side effects. With a bus attached, every increment also emits an event
// for the database batch writer; emission never blocks a game action.
type Recorder struct {
	mu     sync.Mutex
	totals Snapshot
	bus    *events.Bus
	now    func() time.Time
}

// NewRecorder creates a recorder; bus may be nil when analytics persistence
// is not configured.
func NewRecorder(bus *events.Bus) *Recorder {
	return &Recorder{
		totals: Snapshot{DailyStats: make(map[string]int)},
		bus:    bus,
		now:    time.Now,
	}
}

func (r *Recorder) LobbyCreated(code string) {
	r.mu.Lock()
	r.totals.TotalLobbiesCreated++
	r.totals.DailyStats[r.now().UTC().Format(dayFormat)]++
	r.mu.Unlock()
	r.emit(events.KindLobbyCreated, code)
}

func (r *Recorder) PlayerJoined(code string) {
	r.mu.Lock()
	r.totals.TotalPlayers++
	r.mu.Unlock()
	r.emit(events.KindPlayerJoined, code)
}

func (r *Recorder) WordSubmitted(code string) {
	r.mu.Lock()
	r.totals.TotalWordsCreated++
	r.mu.Unlock()
	r.emit(events.KindWordSubmitted, code)
}

// Snapshot returns a detached copy of the current counters.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.totals
	snap.DailyStats = make(map[string]int, len(r.totals.DailyStats))
	for day, n := range r.totals.DailyStats {
		snap.DailyStats[day] = n
	}
	return snap
}

func (r *Recorder) emit(kind events.Kind, code string) {
	if r.bus == nil {
		return
	}
	ev := events.Event{Kind: kind, LobbyCode: code, OccurredAt: r.now().UTC()}
	if !r.bus.Publish(ev) {
		log.Printf("[Analytics] event bus full, dropping %s for %s\n", kind, code)
	}
}
