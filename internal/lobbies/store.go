package lobbies

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("lobby not found or expired")
	ErrNotWaiting  = errors.New("lobby is not accepting players")
	ErrLobbyFull   = errors.New("lobby is full")
	ErrPlayerCount = errors.New("lobby does not have exactly two players")
)

// Recorder receives the analytics side effects of registry mutations.
type Recorder interface {
	LobbyCreated(code string)
	PlayerJoined(code string)
	WordSubmitted(code string)
}

// Config holds the store's tunables. Zero values fall back to the defaults
// the game was designed around.
type Config struct {
	TTL           time.Duration
	CodeLength    int
	TimerDuration int // seconds
}

// Store owns every active Lobby and its paired GameState. All reads and
// writes go through the store mutex; connection goroutines never touch the
// records directly, and accessors hand out copies.
type Store struct {
	mu      sync.Mutex
	cfg     Config
	rec     Recorder
	rng     *rand.Rand
	lobbies map[string]*Lobby
	states  map[string]*GameState
}

// NewStore creates a store with a self-seeded random source.
func NewStore(cfg Config, rec Recorder) *Store {
	return NewStoreWithRand(cfg, rec, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewStoreWithRand creates a store with the given source for lobby codes and
// round letters, so tests can supply a deterministic one.
func NewStoreWithRand(cfg Config, rec Recorder, rng *rand.Rand) *Store {
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.CodeLength == 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.TimerDuration == 0 {
		cfg.TimerDuration = 60
	}
	return &Store{
		cfg:     cfg,
		rec:     rec,
		rng:     rng,
		lobbies: make(map[string]*Lobby),
		states:  make(map[string]*GameState),
	}
}

// Create generates a fresh code, then creates the Lobby and its GameState
// together. Codes only ever collide with non-expired lobbies; an expired
// holder of the same code is evicted and the code reused.
func (s *Store) Create() (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code := newCode(s.rng, s.cfg.CodeLength)
		if s.getLocked(code) != nil {
			continue
		}

		now := time.Now()
		lobby := &Lobby{
			Code:      code,
			Players:   []string{},
			State:     StateWaiting,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.TTL),
		}
		s.lobbies[code] = lobby
		s.states[code] = &GameState{
			Code:          code,
			RoundNumber:   1,
			Categories:    slices.Clone(Categories),
			PlayerAnswers: make(map[string]map[string]string),
			TimerDuration: s.cfg.TimerDuration,
		}
		s.rec.LobbyCreated(code)
		return copyLobby(lobby), nil
	}
	return nil, fmt.Errorf("failed to generate unique lobby code after 10 attempts")
}

// Get returns the lobby for code, or nil if it is absent or expired. Expiry
// is enforced here: a stale lobby is removed together with its GameState
// before the absent result is returned.
func (s *Store) Get(code string) *Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLobby(s.getLocked(code))
}

// GetState returns the game state for code, or nil. Lookups go through the
// lobby so that expiry also removes the paired state.
func (s *Store) GetState(code string) *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getLocked(code) == nil {
		return nil
	}
	return copyState(s.states[code])
}

// Join adds playerID to the lobby. Joining is idempotent: a player already
// in the list gets a success result even when the lobby is full, while the
// capacity check only rejects genuinely new players.
func (s *Store) Join(code, playerID string) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby := s.getLocked(code)
	if lobby == nil {
		return nil, ErrNotFound
	}
	if lobby.State != StateWaiting {
		return nil, ErrNotWaiting
	}
	if slices.Contains(lobby.Players, playerID) {
		return copyLobby(lobby), nil
	}
	if len(lobby.Players) >= MaxPlayers {
		return nil, ErrLobbyFull
	}
	lobby.Players = append(lobby.Players, playerID)
	s.rec.PlayerJoined(code)
	return copyLobby(lobby), nil
}

// StartRound moves the lobby into PLAYING, picks the round letter, stamps the
// timer start and seeds an empty answer map for each player. It requires
// exactly two players and a WAITING lobby.
func (s *Store) StartRound(code string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby := s.getLocked(code)
	if lobby == nil {
		return nil, ErrNotFound
	}
	if len(lobby.Players) != MaxPlayers {
		return nil, ErrPlayerCount
	}
	if lobby.State != StateWaiting {
		return nil, ErrNotWaiting
	}

	lobby.State = StatePlaying

	state := s.states[code]
	state.SelectedLetter = randomLetter(s.rng)
	now := time.Now()
	state.TimerStartedAt = &now
	for _, p := range lobby.Players {
		state.PlayerAnswers[p] = make(map[string]string)
	}
	return copyState(state), nil
}

// SubmitAnswer records one answer, last write wins per (player, category).
// Neither the category nor the lobby state is validated; the round timer is
// advisory and clients may submit after it lapses.
func (s *Store) SubmitAnswer(code, playerID, category, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(code, playerID, category, answer)
}

// SubmitAll records a bulk answer payload and evaluates round completion in
// the same critical section, so two concurrent bulk submits cannot observe a
// half-written map. It returns a snapshot of all answers and whether every
// lobby player now has an entry.
func (s *Store) SubmitAll(code, playerID string, answers map[string]string) (map[string]map[string]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for category, answer := range answers {
		if err := s.submitLocked(code, playerID, category, answer); err != nil {
			return nil, false, err
		}
	}

	lobby := s.getLocked(code)
	state := s.states[code]
	if lobby == nil || state == nil {
		return nil, false, ErrNotFound
	}

	// Completion is presence-based: a player counts as done as soon as it has
	// an entry, even a partial one. Clients rely on when the reveal fires, so
	// this stays a shallow check.
	complete := true
	for _, p := range lobby.Players {
		if _, ok := state.PlayerAnswers[p]; !ok {
			complete = false
			break
		}
	}
	return copyAnswers(state.PlayerAnswers), complete, nil
}

func (s *Store) submitLocked(code, playerID, category, answer string) error {
	if s.getLocked(code) == nil {
		return ErrNotFound
	}
	state := s.states[code]
	if state.PlayerAnswers[playerID] == nil {
		state.PlayerAnswers[playerID] = make(map[string]string)
	}
	state.PlayerAnswers[playerID][category] = answer
	s.rec.WordSubmitted(code)
	return nil
}

// Delete removes the lobby and its game state together.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, code)
	delete(s.states, code)
}

// CleanupExpired removes every expired lobby and returns how many went. The
// periodic sweep belongs to the composition root; reads stay correct without
// it via the lazy check in getLocked.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for code, lobby := range s.lobbies {
		if now.After(lobby.ExpiresAt) {
			delete(s.lobbies, code)
			delete(s.states, code)
			removed++
		}
	}
	return removed
}

// List returns a copy of every active lobby.
func (s *Store) List() []*Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Lobby, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		list = append(list, copyLobby(lobby))
	}
	return list
}

// getLocked is the lazy-expiry read. Callers hold s.mu.
func (s *Store) getLocked(code string) *Lobby {
	lobby, ok := s.lobbies[code]
	if !ok {
		return nil
	}
	if time.Now().After(lobby.ExpiresAt) {
		delete(s.lobbies, code)
		delete(s.states, code)
		return nil
	}
	return lobby
}

func copyLobby(l *Lobby) *Lobby {
	if l == nil {
		return nil
	}
	c := *l
	c.Players = slices.Clone(l.Players)
	return &c
}

func copyState(st *GameState) *GameState {
	if st == nil {
		return nil
	}
	c := *st
	c.Categories = slices.Clone(st.Categories)
	c.PlayerAnswers = copyAnswers(st.PlayerAnswers)
	if st.TimerStartedAt != nil {
		ts := *st.TimerStartedAt
		c.TimerStartedAt = &ts
	}
	return &c
}

func copyAnswers(answers map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(answers))
	for player, byCategory := range answers {
		inner := make(map[string]string, len(byCategory))
		for category, answer := range byCategory {
			inner[category] = answer
		}
		out[player] = inner
	}
	return out
}
