package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Commands queued for the session before the reader blocks
	commandBuffer = 16
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one client's WebSocket and the game session it owns.
// The session is only touched by the actor goroutine started in Start;
// the read pump hands it commands over a channel.
type Connection struct {
	conn        *websocket.Conn
	send        chan *protocol.Message
	commands    chan *protocol.Message
	session     *game.Session
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	clock       quartz.Clock
	idleTimeout time.Duration
	idle        *quartz.Timer
}

// NewConnection creates a connection with a fresh session dealing from rng.
// Round events from the session go to handler.
func NewConnection(conn *websocket.Conn, logger *log.Logger, rng deck.Source, clock quartz.Clock,
	idleTimeout time.Duration, handler game.EventHandler) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	opts := []game.SessionOption{game.WithLogger(logger)}
	if handler != nil {
		opts = append(opts, game.WithEventHandler(handler))
	}
	session := game.NewSession(rng, opts...)

	return &Connection{
		conn:        conn,
		send:        make(chan *protocol.Message, 64),
		commands:    make(chan *protocol.Message, commandBuffer),
		session:     session,
		logger:      logger.WithPrefix("conn").With("session", session.ID()),
		ctx:         ctx,
		cancel:      cancel,
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// Start arms the idle timer and begins handling the connection
func (c *Connection) Start() {
	c.idle = c.clock.AfterFunc(c.idleTimeout, c.expire, "idle")
	go c.writePump()
	go c.serve()
	go c.readPump()
}

// SessionID returns the ID of the session this connection owns
func (c *Connection) SessionID() string {
	return c.session.ID()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if c.idle != nil {
			c.idle.Stop()
		}
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) expire() {
	c.logger.Info("Session idle, closing", "timeout", c.idleTimeout)
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "idle timeout")
	_ = c.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
	_ = c.Close()
}

// readPump decodes frames from the client and queues them for the session
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.idle.Reset(c.idleTimeout, "idle")
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		// an undecodable frame still gets a reply, as a bad request
		msg := &protocol.Message{}
		if err := json.Unmarshal(data, msg); err != nil {
			c.logger.Debug("Undecodable frame", "error", err)
			msg = &protocol.Message{}
		}

		select {
		case c.commands <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// serve is the session actor: it applies commands one at a time and
// answers each with exactly one message
func (c *Connection) serve() {
	for {
		select {
		case msg := <-c.commands:
			if err := c.SendMessage(c.apply(msg)); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) apply(msg *protocol.Message) *protocol.Message {
	c.logger.Debug("Received command", "type", msg.Type)

	var err error
	switch msg.Type {
	case protocol.TypeDraw:
		_, err = c.session.DrawCard()
	case protocol.TypeStand:
		err = c.session.Stand()
	case protocol.TypeRestart:
		c.session.Restart()
	case protocol.TypeState:
	default:
		err = fmt.Errorf("%w: unknown message type %q", protocol.ErrBadRequest, msg.Type)
	}

	if err != nil {
		c.logger.Warn("Command rejected", "type", msg.Type, "error", err)
		return c.errorReply(err)
	}

	reply, err := protocol.StateMessage(c.session.State())
	if err != nil {
		c.logger.Error("Failed to encode state", "error", err)
		return c.errorReply(err)
	}
	return reply
}

func (c *Connection) errorReply(err error) *protocol.Message {
	reply, _ := protocol.ErrorMessage(err) // code and message always encode
	return reply
}
