package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"golang.org/x/sync/errgroup"
)

const (
	defaultIdleTimeout = 5 * time.Minute
	defaultMaxSessions = 64
	shutdownTimeout    = 5 * time.Second
)

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for idle timeouts
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithIdleTimeout sets how long a session may go without a command
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithMaxSessions caps the number of concurrent sessions
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		s.maxSessions = n
	}
}

// WithSeed makes session decks reproducible: sessions are seeded with seed,
// seed+1, seed+2 and so on in the order they connect. Zero seeds every
// session from the clock.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// WithRecorder sets the recorder that collects finished rounds from every session
func WithRecorder(recorder *history.Recorder) Option {
	return func(s *Server) {
		s.recorder = recorder
	}
}

// Server hosts one game session per WebSocket connection
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	clock       quartz.Clock
	idleTimeout time.Duration
	maxSessions int
	seed        int64
	seeded      int64
	sessions    atomic.Int64
	stopped     chan struct{}
	recorder    *history.Recorder
}

// NewServer creates a new session server
func NewServer(addr string, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// players connect from terminals, not browsers
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		idleTimeout: defaultIdleTimeout,
		maxSessions: defaultMaxSessions,
		stopped:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.recorder == nil {
		s.recorder = history.NewRecorder(logger)
	}
	return s
}

// Handler returns the HTTP handler serving /ws, /health and /stats
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// session and shuts the listener down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.run(ctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting session server", "addr", ln.Addr().String(),
			"idle_timeout", s.idleTimeout, "max_sessions", s.maxSessions)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	stats := s.recorder.Stats()
	s.logger.Info("Session server stopped", "summary", stats.Summary())
	return err
}

// run handles connection lifecycle
func (s *Server) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "session", conn.SessionID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "session", conn.SessionID(), "total", total)

		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.connections {
		_ = conn.Close() // ignore close errors during shutdown
	}
}

// handleWebSocket upgrades the request and starts a session for it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.reserveSession() {
		s.logger.Warn("Session limit reached, rejecting client", "max", s.maxSessions)
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.sessions.Add(-1)
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.newSource(), s.clock, s.idleTimeout, s.recorder.Handle)

	select {
	case s.register <- client:
	case <-s.stopped:
		s.sessions.Add(-1)
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.Done()
		s.sessions.Add(-1)
		select {
		case s.unregister <- client:
		case <-s.stopped:
		}
	}()
}

// reserveSession claims a session slot, failing once maxSessions are live
func (s *Server) reserveSession() bool {
	for {
		n := s.sessions.Load()
		if n >= int64(s.maxSessions) {
			return false
		}
		if s.sessions.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *Server) newSource() deck.Source {
	if s.seed == 0 {
		return randutil.NewSeeded(0)
	}
	s.mu.Lock()
	seed := s.seed + s.seeded
	s.seeded++
	s.mu.Unlock()
	return randutil.New(seed)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // ignore write errors for health check
}

// handleStats reports the rounds finished across every session
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.recorder.Report()); err != nil {
		s.logger.Error("Failed to write stats", "error", err)
	}
}

// SessionCount returns the number of live sessions
func (s *Server) SessionCount() int {
	return int(s.sessions.Load())
}

// Recorder returns the server-wide round recorder
func (s *Server) Recorder() *history.Recorder {
	return s.recorder
}
