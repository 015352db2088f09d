// Package client drives a game hosted by the session server. Remote
// implements game.Controller so the terminal UI can play a remote session
// exactly like a local one.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/protocol"
)

const (
	defaultRequestTimeout = 10 * time.Second
	writeWait             = 10 * time.Second
)

// ErrDisconnected is returned once the server has closed the connection
var ErrDisconnected = errors.New("disconnected from server")

// Option configures a Remote
type Option func(*Remote)

// WithRequestTimeout bounds how long a command waits for its reply
func WithRequestTimeout(d time.Duration) Option {
	return func(r *Remote) {
		r.timeout = d
	}
}

// Remote is a game session living on a server
type Remote struct {
	conn    *websocket.Conn
	replies chan *protocol.Message
	logger  *log.Logger
	timeout time.Duration

	// serializes request/reply pairs
	reqMu sync.Mutex

	mu    sync.RWMutex
	state game.State

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

var _ game.Controller = (*Remote)(nil)

// Dial connects to the server and fetches the initial state
func Dial(ctx context.Context, serverURL string, logger *log.Logger, opts ...Option) (*Remote, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	rctx, cancel := context.WithCancel(context.Background())
	r := &Remote{
		conn:    conn,
		replies: make(chan *protocol.Message, 1),
		logger:  logger,
		timeout: defaultRequestTimeout,
		ctx:     rctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.readPump()

	if err := r.Refresh(); err != nil {
		_ = r.Close()
		return nil, err
	}

	state := r.State()
	if err := gameid.Validate(state.SessionID); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("server sent a bad session id: %w", err)
	}
	logger.Info("Connected to server", "session", state.SessionID, "round", state.Round)
	return r, nil
}

// websocketURL accepts ws(s):// or http(s):// URLs and defaults the path to /ws
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", serverURL)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// DrawCard implements game.Controller
func (r *Remote) DrawCard() error {
	return r.do(protocol.TypeDraw)
}

// Stand implements game.Controller
func (r *Remote) Stand() error {
	return r.do(protocol.TypeStand)
}

// Restart implements game.Controller
func (r *Remote) Restart() error {
	return r.do(protocol.TypeRestart)
}

// Refresh fetches the current state from the server
func (r *Remote) Refresh() error {
	return r.do(protocol.TypeState)
}

// State implements game.Controller. It returns the state from the last reply.
func (r *Remote) State() game.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := r.state
	state.Hand = append(state.Hand[:0:0], r.state.Hand...)
	return state
}

// Done is closed when the connection is gone
func (r *Remote) Done() <-chan struct{} {
	return r.ctx.Done()
}

// Close closes the connection
func (r *Remote) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.cancel()
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = r.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
		err = r.conn.Close()
		r.logger.Info("Disconnected from server")
	})
	return err
}

func (r *Remote) do(mt protocol.MessageType) error {
	reply, err := r.request(mt)
	if err != nil {
		return err
	}

	switch reply.Type {
	case protocol.TypeState:
		var state game.State
		if err := reply.Decode(&state); err != nil {
			return err
		}
		r.mu.Lock()
		r.state = state
		r.mu.Unlock()
		r.logger.Debug("State updated", "command", mt, "score", state.Score, "status", state.Status)
		return nil

	case protocol.TypeError:
		var data protocol.ErrorData
		if err := reply.Decode(&data); err != nil {
			return err
		}
		r.logger.Warn("Command rejected", "command", mt, "code", data.Code, "message", data.Message)
		return &data

	default:
		return fmt.Errorf("unexpected reply to %s: %s", mt, reply.Type)
	}
}

// request sends one command and waits for its reply
func (r *Remote) request(mt protocol.MessageType) (*protocol.Message, error) {
	r.reqMu.Lock()
	defer r.reqMu.Unlock()

	select {
	case <-r.ctx.Done():
		return nil, ErrDisconnected
	default:
	}

	_ = r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := r.conn.WriteJSON(protocol.Command(mt)); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("send %s: %w", mt, err)
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case reply := <-r.replies:
		return reply, nil
	case <-timer.C:
		// a late reply would be read as the answer to the next command
		_ = r.Close()
		return nil, fmt.Errorf("timeout waiting for reply to %s", mt)
	case <-r.ctx.Done():
		return nil, ErrDisconnected
	}
}

// readPump reads replies; reading also answers the server's pings
func (r *Remote) readPump() {
	defer func() {
		r.cancel()
		_ = r.conn.Close()
	}()

	for {
		var msg protocol.Message
		if err := r.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				r.logger.Error("WebSocket error", "error", err)
			} else {
				r.logger.Info("Connection closed", "reason", err)
			}
			return
		}

		select {
		case r.replies <- &msg:
		case <-r.ctx.Done():
			return
		}
	}
}
