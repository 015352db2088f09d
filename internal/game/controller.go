package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
)

// State is an immutable snapshot of a session, as read by renderers and
// sent over the wire.
type State struct {
	SessionID string      `json:"session_id"`
	Round     int         `json:"round"`
	Hand      []deck.Card `json:"hand"`
	Score     int         `json:"score"`
	Status    Status      `json:"status"`
	Remaining int         `json:"remaining"`
}

// CanDraw reports whether draw and stand are currently allowed
func (s State) CanDraw() bool {
	return s.Status == InProgress
}

// Message returns the banner for the state
func (s State) Message() string {
	return s.Status.Message(s.Score)
}

// Controller is the contract between a presentation layer and a game.
// Implementations: LocalController and client.Remote.
type Controller interface {
	DrawCard() error
	Stand() error
	Restart() error
	State() State
}

// LocalController drives an in-process Session
type LocalController struct {
	session *Session
	logger  *log.Logger
}

var _ Controller = (*LocalController)(nil)

// NewLocalController wraps a session. A nil logger discards output.
func NewLocalController(session *Session, logger *log.Logger) *LocalController {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &LocalController{
		session: session,
		logger:  logger.WithPrefix("controller"),
	}
}

// DrawCard implements Controller
func (c *LocalController) DrawCard() error {
	card, err := c.session.DrawCard()
	if err != nil {
		c.logger.Warn("Draw rejected", "error", err)
		return err
	}
	c.logger.Info("Drew card", "card", card.ID(), "score", c.session.Score(), "status", c.session.Status())
	return nil
}

// Stand implements Controller
func (c *LocalController) Stand() error {
	if err := c.session.Stand(); err != nil {
		c.logger.Warn("Stand rejected", "error", err)
		return err
	}
	c.logger.Info("Stood", "score", c.session.Score())
	return nil
}

// Restart implements Controller
func (c *LocalController) Restart() error {
	c.session.Restart()
	c.logger.Info("Restarted", "round", c.session.Round())
	return nil
}

// State implements Controller
func (c *LocalController) State() State {
	return c.session.State()
}

// Session returns the wrapped session
func (c *LocalController) Session() *Session {
	return c.session
}

// Apply dispatches an action to a controller
func Apply(c Controller, action Action) error {
	switch action {
	case ActionDraw:
		return c.DrawCard()
	case ActionStand:
		return c.Stand()
	case ActionRestart:
		return c.Restart()
	default:
		return &ActionError{Action: action, Status: c.State().Status}
	}
}
