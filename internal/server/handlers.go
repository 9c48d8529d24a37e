package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"wordclash/internal/analytics"
	"wordclash/internal/db"
	"wordclash/internal/lobbies"
	"wordclash/internal/session"
	"wordclash/internal/wshub"
)

type Server struct {
	Lobbies     *lobbies.Store
	Hub         *wshub.Hub
	Coordinator *session.Coordinator
	Recorder    *analytics.Recorder
	DB          *db.DB // nil if no database configured
	StaticDir   string // empty if no frontend build to serve
}

type createLobbyResponse struct {
	LobbyID string `json:"lobby_id"`
	Message string `json:"message"`
}

type lobbyInfoResponse struct {
	Lobby     *lobbies.Lobby     `json:"lobby"`
	GameState *lobbies.GameState `json:"game_state"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] encode error: %v\n", err)
	}
}

func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	lobby, err := s.Lobbies.Create()
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Failed to create lobby"})
		return
	}

	log.Printf("[HTTP] Created lobby %s\n", lobby.Code)
	writeJSON(w, http.StatusOK, createLobbyResponse{
		LobbyID: lobby.Code,
		Message: fmt.Sprintf("Lobby created successfully. Share code: %s", lobby.Code),
	})
}

func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))

	lobby := s.Lobbies.Get(code)
	if lobby == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Lobby not found or expired"})
		return
	}
	writeJSON(w, http.StatusOK, lobbyInfoResponse{
		Lobby:     lobby,
		GameState: s.Lobbies.GetState(code),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snap := s.Recorder.Snapshot()

	// With a database, serve the persisted numbers so they survive restarts.
	// Any query failure falls back to the in-memory counters.
	if s.DB != nil {
		q := analytics.NewQueries(s.DB)
		if totals, err := q.Totals(); err != nil {
			log.Printf("[Analytics] totals error: %v\n", err)
		} else {
			totals.DailyStats = snap.DailyStats
			snap = totals
		}
		if daily, err := q.DailyStats(30); err != nil {
			log.Printf("[Analytics] daily stats error: %v\n", err)
		} else {
			snap.DailyStats = daily
		}
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": status, "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	playerID := r.PathValue("player")
	if playerID == "" {
		// Clients normally bring their own id; assign one otherwise.
		playerID = uuid.New().String()
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin checking is off to match the permissive CORS policy.
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[WS] accept failed for %s/%s: %v\n", code, playerID, err)
		return
	}
	defer conn.CloseNow()

	log.Printf("[WS] %s connected to %s\n", playerID, code)
	s.Coordinator.Serve(r.Context(), conn, code, playerID)
	log.Printf("[WS] %s left %s\n", playerID, code)

	conn.Close(websocket.StatusNormalClosure, "")
}

// handleStatic serves the built frontend with an index.html fallback for SPA
// routes. API and websocket paths never fall through to it.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
		return
	}

	if s.StaticDir == "" {
		if p == "/" {
			writeJSON(w, http.StatusOK, map[string]string{
				"message": "Welcome to the wordclash API",
				"health":  "/health",
			})
			return
		}
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(s.StaticDir, filepath.Clean("/"+p))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		http.ServeFile(w, r, full)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.StaticDir, "index.html"))
}
