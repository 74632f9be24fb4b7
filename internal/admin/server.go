package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"submarine-sim/internal/geom"
	"submarine-sim/internal/leaderboard"
	"submarine-sim/internal/logging"
	"submarine-sim/internal/sim"
)

// Leaderboard is the read side of the score store.
type Leaderboard interface {
	Top(ctx context.Context, n int, difficulty float64) ([]leaderboard.Entry, error)
}

// Message is the envelope for every websocket frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Server exposes one simulator over HTTP and a websocket snapshot feed.
// Interval sets how often snapshots are pushed.
type Server struct {
	Sim      *sim.Simulator
	Board    Leaderboard
	Interval time.Duration

	tpl *template.Template
	log *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewServer builds a Server with a 100ms push interval. A nil board disables /leaderboard.
func NewServer(s *sim.Simulator, board Leaderboard, log *slog.Logger) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{
		Sim:      s,
		Board:    board,
		Interval: 100 * time.Millisecond,
		tpl:      tpl,
		log:      logging.Component(log, "admin"),
	}
}

// Handler returns the admin routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/new-game", s.handleNewGame)
	mux.HandleFunc("/pause", s.handlePause)
	mux.HandleFunc("/spawn-enemy", s.handleSpawn)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start serves the admin routes on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("admin listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Snapshot sim.Snapshot
		Player   string
	}{
		Snapshot: s.Sim.Snapshot(),
		Player:   s.Sim.Config().PlayerName,
	}
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	writeJSON(w, s.Sim.RecentEvents(n))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Sim.NewGame()
	s.log.Info("new game requested", "remote", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"paused": s.Sim.Pause()})
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	var coords [3]float64
	for i, key := range []string{"x", "y", "z"} {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			http.Error(w, "bad "+key, http.StatusBadRequest)
			return
		}
		coords[i] = v
	}
	if !s.Sim.SpawnEnemy(geom.V(coords[0], coords[1], coords[2])) {
		http.Error(w, "no active wave", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.Board == nil {
		http.Error(w, "leaderboard disabled", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	n, _ := strconv.Atoi(q.Get("n"))
	diff, _ := strconv.ParseFloat(q.Get("difficulty"), 64)
	entries, err := s.Board.Top(r.Context(), n, diff)
	if err != nil {
		s.log.Error("leaderboard query", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// handleWS streams snapshots to the client until it disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(Message{Type: "snapshot", Payload: s.Sim.Snapshot()}); err != nil {
			s.log.Debug("websocket write", "err", err)
			return
		}
		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
