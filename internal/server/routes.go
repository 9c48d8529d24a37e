package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"wordclash/internal/analytics"
	"wordclash/internal/config"
	"wordclash/internal/db"
	"wordclash/internal/events"
	"wordclash/internal/lobbies"
	"wordclash/internal/session"
	"wordclash/internal/wshub"
)

// Run wires the lobby store, connection hub, coordinator and the optional
// analytics database together, then serves HTTP until the listener fails.
func Run(cfg config.Config) error {
	bus := events.NewBus()
	recorder := analytics.NewRecorder(bus)
	store := lobbies.NewStore(lobbies.Config{
		TTL:           cfg.LobbyTTL,
		CodeLength:    cfg.CodeLength,
		TimerDuration: cfg.RoundDuration,
	}, recorder)
	hub := wshub.NewHub()

	coordinator := session.New(store, hub)
	coordinator.Verbose = cfg.Verbose

	srv := &Server{
		Lobbies:     store,
		Hub:         hub,
		Coordinator: coordinator,
		Recorder:    recorder,
		StaticDir:   cfg.StaticDir,
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			go eventBatchWriter(database, bus)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] Database URL not set, running without database")
	}

	// The sweep is owned here; reads stay correct without it through the
	// store's lazy expiry check.
	go sweepExpired(store, cfg.CleanupInterval)

	addr := net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))
	fmt.Printf("Server listening on http://%s\n", addr)
	return http.ListenAndServe(addr, withCORS(srv.routes()))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/lobby/create", s.handleCreateLobby)
	mux.HandleFunc("GET /api/lobby/{code}", s.handleGetLobby)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws/{code}/{player}", s.handleWS)
	mux.HandleFunc("GET /ws/{code}", s.handleWS)
	mux.HandleFunc("/", s.handleStatic)
	return mux
}

// withCORS mirrors the permissive policy the frontend was built against.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sweepExpired(store *lobbies.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if n := store.CleanupExpired(); n > 0 {
			log.Printf("[Lobbies] Removed %d expired lobbies\n", n)
		}
	}
}

func eventBatchWriter(database *db.DB, bus *events.Bus) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.EventRecord, 0, 50)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordEvents(batch); err != nil {
			log.Printf("[DB] BatchRecordEvents error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-bus.Events:
			batch = append(batch, db.EventRecord{
				Kind:       string(ev.Kind),
				LobbyCode:  ev.LobbyCode,
				OccurredAt: ev.OccurredAt,
			})
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
