// Package session drives the per-connection protocol state machine: it
// translates inbound client commands into lobby-store mutations and fans the
// resulting events back out through the hub.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"

	"github.com/coder/websocket"

	"wordclash/internal/lobbies"
	"wordclash/internal/protocol"
	"wordclash/internal/wshub"
)

type Coordinator struct {
	Lobbies *lobbies.Store
	Hub     *wshub.Hub
	Verbose bool
}

func New(store *lobbies.Store, hub *wshub.Hub) *Coordinator {
	return &Coordinator{Lobbies: store, Hub: hub}
}

func (c *Coordinator) debugf(format string, args ...any) {
	if !c.Verbose {
		return
	}
	log.Printf(format, args...)
}

// Serve runs the read loop for one connection until the peer goes away.
// Connecting implicitly joins the lobby (idempotent on reconnect); closing
// the connection is the only cancellation signal and always triggers the
// disconnect broadcast, whatever ended the loop.
func (c *Coordinator) Serve(ctx context.Context, conn *websocket.Conn, code, playerID string) {
	client := wshub.NewClient(conn)
	c.Hub.Register(code, playerID, client)

	c.Hub.Unicast(ctx, code, playerID, protocol.Connected{
		Type:     "connected",
		PlayerID: playerID,
		LobbyID:  code,
	})

	c.join(ctx, code, playerID)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		c.dispatch(ctx, code, playerID, data)
	}

	// Identity-compared removal: if the player already reconnected, the old
	// loop's teardown must not drop the fresh channel.
	c.Hub.UnregisterIf(code, playerID, client)
	c.Hub.Broadcast(ctx, code, protocol.PlayerDisconnected{
		Type:        "player_disconnected",
		PlayerID:    playerID,
		PlayerCount: c.Hub.PlayerCount(code),
	})
}

// join adds the player to the lobby and announces the roster. A listed player
// reconnecting mid-round is not an error: the store rejects the join because
// the lobby left WAITING, but the roster is re-broadcast so the returning
// client can restore its view.
func (c *Coordinator) join(ctx context.Context, code, playerID string) {
	lobby, err := c.Lobbies.Join(code, playerID)
	if errors.Is(err, lobbies.ErrNotWaiting) {
		if l := c.Lobbies.Get(code); l != nil && slices.Contains(l.Players, playerID) {
			lobby, err = l, nil
		}
	}
	if err != nil {
		c.sendError(ctx, code, playerID, err.Error())
		return
	}
	c.Hub.Broadcast(ctx, code, protocol.PlayerJoined{
		Type:        "player_joined",
		PlayerCount: len(lobby.Players),
		Players:     lobby.Players,
	})
}

// dispatch handles one inbound frame. Malformed payloads are answered with
// an error frame and never terminate the connection loop.
func (c *Coordinator) dispatch(ctx context.Context, code, playerID string, data []byte) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ctx, code, playerID, "invalid message")
		return
	}

	c.debugf("[Session] %s frame from %s in %s\n", msg.Type, playerID, code)

	switch msg.Type {
	case protocol.TypeStartGame:
		c.startGame(ctx, code, playerID)
	case protocol.TypeSubmitAnswer:
		c.submitAnswer(ctx, code, playerID, msg)
	case protocol.TypeSubmitAllAnswers:
		c.submitAll(ctx, code, playerID, msg.Answers)
	case protocol.TypePing:
		c.Hub.Unicast(ctx, code, playerID, protocol.Pong{Type: "pong"})
	case "":
		c.sendError(ctx, code, playerID, "missing message type")
	default:
		log.Printf("[Session] unknown message type %q from %s in %s\n", msg.Type, playerID, code)
	}
}

func (c *Coordinator) startGame(ctx context.Context, code, playerID string) {
	state, err := c.Lobbies.StartRound(code)
	if err != nil {
		c.sendError(ctx, code, playerID, "Cannot start game. Need 2 players.")
		return
	}
	c.Hub.Broadcast(ctx, code, protocol.GameStarted{
		Type:          "game_started",
		Letter:        state.SelectedLetter,
		Categories:    state.Categories,
		TimerDuration: state.TimerDuration,
		RoundNumber:   state.RoundNumber,
	})
}

func (c *Coordinator) submitAnswer(ctx context.Context, code, playerID string, msg protocol.ClientMessage) {
	if msg.Category == "" {
		c.sendError(ctx, code, playerID, "category is required")
		return
	}
	if err := c.Lobbies.SubmitAnswer(code, playerID, msg.Category, msg.Answer); err != nil {
		log.Printf("[Session] submit from %s in %s rejected: %v\n", playerID, code, err)
		return
	}
	// Acknowledged to the submitter only; the opponent learns nothing until
	// the reveal.
	c.Hub.Unicast(ctx, code, playerID, protocol.AnswerSubmitted{
		Type:     "answer_submitted",
		Category: msg.Category,
		Answer:   msg.Answer,
	})
}

func (c *Coordinator) submitAll(ctx context.Context, code, playerID string, answers map[string]string) {
	snapshot, complete, err := c.Lobbies.SubmitAll(code, playerID, answers)
	if err != nil {
		if !errors.Is(err, lobbies.ErrNotFound) {
			log.Printf("[Session] bulk submit from %s in %s failed: %v\n", playerID, code, err)
		}
		return
	}

	c.Hub.Broadcast(ctx, code, protocol.PlayerReady{
		Type:     "player_ready",
		PlayerID: playerID,
	})

	if complete {
		c.Hub.Broadcast(ctx, code, protocol.AnswersRevealed{
			Type:          "answers_revealed",
			PlayerAnswers: snapshot,
		})
	}
}

func (c *Coordinator) sendError(ctx context.Context, code, playerID, message string) {
	c.Hub.Unicast(ctx, code, playerID, protocol.ErrorMessage{
		Type:    "error",
		Message: message,
	})
}
