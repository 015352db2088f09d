package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventRoundStarted EventType = "round_started"
	EventCardDrawn    EventType = "card_drawn"
	EventStood        EventType = "stood"
	EventWon          EventType = "won"
	EventLost         EventType = "lost"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is published after every state transition of a session
type Event struct {
	Type      EventType
	SessionID string
	Round     int
	Card      deck.Card // set for EventCardDrawn
	Hand      []deck.Card
	Score     int
	Status    Status
	Timestamp time.Time
}

// EventHandler receives session events synchronously, in order
type EventHandler func(Event)

// IsRoundEnd reports whether the event closes a round
func (e Event) IsRoundEnd() bool {
	return e.Type == EventWon || e.Type == EventLost || e.Type == EventStood
}
