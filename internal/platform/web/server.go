// Package web serves browser play over websockets and a small JSON
// leaderboard API. Every connection gets its own game and runner.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
	"github.com/vovakirdan/retro-snake/internal/games/snake"
	"github.com/vovakirdan/retro-snake/internal/leaderboard"
	"github.com/vovakirdan/retro-snake/internal/storage"
)

//go:embed static
var staticFiles embed.FS

const writeTimeout = 5 * time.Second

// Message types sent to the browser.
const (
	MsgFrame  = "frame"
	MsgOver   = "over"
	MsgScores = "scores"
	MsgError  = "error"
)

// ServerMessage is one JSON message pushed to the client.
type ServerMessage struct {
	Type    string              `json:"type"`
	Session string              `json:"session,omitempty"`
	Frame   *snake.Frame        `json:"frame,omitempty"`
	Summary *Summary            `json:"summary,omitempty"`
	Scores  []leaderboard.Entry `json:"scores,omitempty"`
	Source  leaderboard.Source  `json:"source,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ClientMessage is one JSON message read from the client. Action is one of
// up, down, left, right, pause, restart, submit or scores; Name goes with submit.
type ClientMessage struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}

// Summary is the JSON form of a finished round.
type Summary struct {
	Score      int   `json:"score"`
	Length     int   `json:"length"`
	Ticks      int64 `json:"ticks"`
	FoodEaten  int   `json:"food_eaten"`
	PowerUps   int   `json:"powerups"`
	DurationMS int64 `json:"duration_ms"`
	Seed       int64 `json:"seed"`
	Qualifies  bool  `json:"qualifies"`
}

// Server is the browser play server.
type Server struct {
	cfg      config.SnakeConfig
	board    *leaderboard.Board
	store    *storage.Store
	log      *log.Logger
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewServer creates a server. board and store may be nil.
func NewServer(cfg config.SnakeConfig, board *leaderboard.Board, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:   cfg,
		board: board,
		store: store,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the HTTP routes: the static page, /ws and /api/highscores.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFiles, "static")
	if err == nil {
		mux.Handle("GET /", http.FileServerFS(static))
	}
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/highscores", s.handleHighScores)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting web server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Active returns the number of open game sessions.
func (s *Server) Active() int {
	return int(s.active.Load())
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	resp := ServerMessage{Type: MsgScores, Scores: []leaderboard.Entry{}}
	if s.board != nil {
		resp.Scores = s.board.Refresh(r.Context())
		resp.Source = s.board.Source()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("cannot encode highscores", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	seed := time.Now().UnixNano()
	if v := r.URL.Query().Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "bad seed", http.StatusBadRequest)
			return
		}
		seed = parsed
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	sess := newSession(s, conn, seed)
	s.active.Add(1)
	defer s.active.Add(-1)

	sess.log.Info("session started", "remote", r.RemoteAddr, "seed", seed)
	sess.run(r.Context())
	sess.log.Info("session ended", "remote", r.RemoteAddr)
}

// session is one websocket connection and its game.
type session struct {
	srv    *Server
	id     string
	conn   *websocket.Conn
	log    *log.Logger
	runner *snake.Runner
	cancel context.CancelFunc

	writeMu sync.Mutex

	mu      sync.Mutex
	pending *snake.RunSummary // Finished round not yet submitted
}

func newSession(srv *Server, conn *websocket.Conn, seed int64) *session {
	sess := &session{
		srv:  srv,
		id:   uuid.NewString(),
		conn: conn,
	}
	sess.log = srv.log.With("session", sess.id)

	game := snake.New(srv.cfg, snake.WithSeed(seed))
	sess.runner = snake.NewRunner(game,
		snake.RendererFunc(func(f snake.Frame) {
			sess.write(ServerMessage{Type: MsgFrame, Frame: &f})
		}),
		snake.WithLogger(sess.log),
		snake.WithGameOverHandler(sess.gameOver),
	)
	return sess
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	defer cancel()

	// Sent before the runner starts so it is the first message.
	s.write(ServerMessage{Type: MsgScores, Session: s.id, Scores: s.entries(), Source: s.source()})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("runner stopped", "error", err)
		}
	}()

	s.readLoop(ctx)
	cancel()
	<-done
}

func (s *session) readLoop(ctx context.Context) {
	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read failed", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		s.handle(ctx, msg)
	}
}

func (s *session) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Action {
	case "submit":
		s.submit(ctx, msg.Name)
	case "scores":
		entries := s.entries()
		if s.srv.board != nil {
			entries = s.srv.board.Refresh(ctx)
		}
		s.write(ServerMessage{Type: MsgScores, Scores: entries, Source: s.source()})
	default:
		action := core.ParseAction(msg.Action)
		if action == core.ActionRestart {
			s.mu.Lock()
			s.pending = nil
			s.mu.Unlock()
		}
		if !s.runner.Do(action) {
			s.write(ServerMessage{Type: MsgError, Error: "unknown action " + strconv.Quote(msg.Action)})
		}
	}
}

// gameOver runs on the runner goroutine.
func (s *session) gameOver(sum snake.RunSummary) {
	qualifies := false
	if sum.Score > 0 {
		s.mu.Lock()
		s.pending = &sum
		s.mu.Unlock()
		qualifies = s.srv.board == nil || s.srv.board.Qualifies(sum.Score)
	}

	if s.srv.store != nil {
		_, err := s.srv.store.SaveRun(storage.Run{
			Score:     sum.Score,
			Length:    sum.Length,
			Ticks:     sum.Ticks,
			FoodEaten: sum.FoodEaten,
			PowerUps:  sum.PowerUps,
			Duration:  sum.Duration,
			Seed:      sum.Seed,
			Source:    "web",
		})
		if err != nil {
			s.log.Warn("cannot save run", "error", err)
		}
	}

	s.write(ServerMessage{Type: MsgOver, Summary: &Summary{
		Score:      sum.Score,
		Length:     sum.Length,
		Ticks:      int64(sum.Ticks),
		FoodEaten:  sum.FoodEaten,
		PowerUps:   sum.PowerUps,
		DurationMS: sum.Duration.Milliseconds(),
		Seed:       sum.Seed,
		Qualifies:  qualifies,
	}})
}

// submit records the pending round once under name.
func (s *session) submit(ctx context.Context, name string) {
	s.mu.Lock()
	sum := s.pending
	s.pending = nil
	s.mu.Unlock()

	if sum == nil {
		s.write(ServerMessage{Type: MsgError, Error: "no finished round to submit"})
		return
	}
	if s.srv.board == nil {
		s.write(ServerMessage{Type: MsgError, Error: "leaderboard disabled"})
		return
	}

	entries := s.srv.board.Add(ctx, name, sum.Score)
	s.log.Info("score submitted", "name", leaderboard.NormalizeName(name), "score", sum.Score)
	s.write(ServerMessage{Type: MsgScores, Scores: entries, Source: s.srv.board.Source()})
}

func (s *session) entries() []leaderboard.Entry {
	if s.srv.board == nil {
		return nil
	}
	return s.srv.board.Entries()
}

func (s *session) source() leaderboard.Source {
	if s.srv.board == nil {
		return leaderboard.SourceNone
	}
	return s.srv.board.Source()
}

// write serialises writes from the runner and reader goroutines.
func (s *session) write(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.log.Debug("write failed", "type", msg.Type, "error", err)
		if s.cancel != nil {
			s.cancel()
		}
	}
}
