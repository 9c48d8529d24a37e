package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// writeWait bounds a single outbound frame write.
const writeWait = 10 * time.Second

// Sender writes one serialized frame to a peer.
type Sender interface {
	Send(ctx context.Context, data []byte) error
}

// Client adapts a websocket connection to a Sender. Writes are serialized so
// a broadcast and a unicast never interleave frames on the same connection.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Hub tracks the live outbound channel of every connected player, grouped by
// lobby code. It knows nothing about lobby membership; a lobby entry exists
// here only while at least one of its players is connected.
type Hub struct {
	mu      sync.RWMutex
	lobbies map[string]map[string]Sender
}

func NewHub() *Hub {
	return &Hub{lobbies: make(map[string]map[string]Sender)}
}

// Register adds the channel for (code, playerID). A reconnecting player
// silently replaces its previous channel.
func (h *Hub) Register(code, playerID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby, ok := h.lobbies[code]
	if !ok {
		lobby = make(map[string]Sender)
		h.lobbies[code] = lobby
	}
	lobby[playerID] = s
}

// Unregister removes the channel; the lobby entry disappears with its last
// player so empty lobbies hold no memory here.
func (h *Hub) Unregister(code, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby, ok := h.lobbies[code]
	if !ok {
		return
	}
	delete(lobby, playerID)
	if len(lobby) == 0 {
		delete(h.lobbies, code)
	}
}

// UnregisterIf removes the channel only while s is still the registered one,
// so evicting a failed sender never drops a replacement the player registered
// in the meantime.
func (h *Hub) UnregisterIf(code, playerID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	lobby, ok := h.lobbies[code]
	if !ok || lobby[playerID] != s {
		return
	}
	delete(lobby, playerID)
	if len(lobby) == 0 {
		delete(h.lobbies, code)
	}
}

// Unicast sends msg to exactly one player. A missing channel is a no-op; a
// failed send evicts the connection.
func (h *Hub) Unicast(ctx context.Context, code, playerID string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Hub] marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	s := h.lobbies[code][playerID]
	h.mu.RUnlock()
	if s == nil {
		return
	}

	if err := s.Send(ctx, data); err != nil {
		log.Printf("[Hub] send to %s in %s failed: %v\n", playerID, code, err)
		h.UnregisterIf(code, playerID, s)
	}
}

// Broadcast sends msg to every player connected to the lobby, best effort: a
// failed recipient does not stop delivery to the rest, and every failed
// recipient is evicted after the pass. There is no retry and no backlog.
func (h *Hub) Broadcast(ctx context.Context, code string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Hub] marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	recipients := make(map[string]Sender, len(h.lobbies[code]))
	for id, s := range h.lobbies[code] {
		recipients[id] = s
	}
	h.mu.RUnlock()

	var failed []string
	for id, s := range recipients {
		if err := s.Send(ctx, data); err != nil {
			log.Printf("[Hub] send to %s in %s failed: %v\n", id, code, err)
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.UnregisterIf(code, id, recipients[id])
	}
}

// PlayerCount reports how many players are connected to the lobby.
func (h *Hub) PlayerCount(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[code])
}

// IsConnected reports whether the player has a live channel in the lobby.
func (h *Hub) IsConnected(code, playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.lobbies[code][playerID]
	return ok
}
