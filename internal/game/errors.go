package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

var (
	// ErrInvalidAction is returned when an action is not allowed in the
	// current status (e.g. drawing after the game is over)
	ErrInvalidAction = errors.New("invalid action")

	// ErrEmptyDeck is returned when a draw finds no cards left
	ErrEmptyDeck = deck.ErrEmptyDeck
)

// Action is one of the player intents a session accepts
type Action string

const (
	ActionDraw    Action = "draw"
	ActionStand   Action = "stand"
	ActionRestart Action = "restart"
)

// ParseAction maps user input to an action. It accepts the canonical names
// plus the short forms used at the command prompt.
func ParseAction(input string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "draw", "d", "hit", "h", "card":
		return ActionDraw, true
	case "stand", "s", "stop":
		return ActionStand, true
	case "restart", "r", "new", "reset":
		return ActionRestart, true
	default:
		return "", false
	}
}

// ActionError reports an action rejected because of the session status
type ActionError struct {
	Action Action
	Status Status
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("cannot %s: game is %s", e.Action, e.Status)
}

func (e *ActionError) Unwrap() error {
	return ErrInvalidAction
}
