package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameid"
)

// SessionOption configures a Session during creation.
type SessionOption func(*Session)

// WithLogger sets the logger used for state transitions
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger.WithPrefix("game")
	}
}

// WithID sets the session identifier. Defaults to a generated game ID.
func WithID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithEventHandler registers a handler for session events
func WithEventHandler(handler EventHandler) SessionOption {
	return func(s *Session) {
		s.handlers = append(s.handlers, handler)
	}
}

// WithDeck makes every round deal from a copy of cards, in the given order,
// instead of a freshly shuffled full deck. Draws still go through the
// random source, so pair it with a scripted source to replay a deal exactly.
func WithDeck(cards []deck.Card) SessionOption {
	return func(s *Session) {
		s.fixed = make([]deck.Card, len(cards))
		copy(s.fixed, cards)
	}
}

// Session holds the state of one player's game: the deck, the hand drawn so
// far, the running score and the status.
type Session struct {
	id       string
	round    int
	rng      deck.Source
	fixed    []deck.Card
	deck     *deck.Deck
	hand     []deck.Card
	score    int
	status   Status
	logger   *log.Logger
	handlers []EventHandler
	now      func() time.Time
}

// NewSession creates a session and starts its first round.
// The random source is required to keep shuffles explicit and testable.
func NewSession(rng deck.Source, opts ...SessionOption) *Session {
	if rng == nil {
		panic("rng is required for session creation")
	}

	s := &Session{
		rng:    rng,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = gameid.Generate()
	}

	s.Restart()
	return s
}

// Start begins a new round. It is the same as Restart.
func (s *Session) Start() {
	s.Restart()
}

// Restart rebuilds and shuffles the deck, clears the hand and resets the
// score. It is allowed from any status.
func (s *Session) Restart() {
	if s.fixed != nil {
		s.deck = deck.FromCards(s.fixed, s.rng)
	} else {
		s.deck = deck.New(s.rng)
	}
	s.hand = nil
	s.score = 0
	s.status = InProgress
	s.round++

	s.logger.Debug("Round started", "session", s.id, "round", s.round, "cards", s.deck.Remaining())
	s.publish(EventRoundStarted, deck.Card{})
}

// DrawCard draws a random card from the deck into the hand and applies the
// transition rule: over 21 loses, exactly 21 wins, anything else plays on.
// In a terminal status it returns an *ActionError and changes nothing.
func (s *Session) DrawCard() (deck.Card, error) {
	if s.status != InProgress {
		return deck.Card{}, &ActionError{Action: ActionDraw, Status: s.status}
	}

	card, err := s.deck.Draw()
	if err != nil {
		s.logger.Warn("Draw failed", "session", s.id, "error", err)
		return deck.Card{}, err
	}

	s.hand = append(s.hand, card)
	s.score = Score(s.hand)
	s.status = statusFor(s.score)

	s.logger.Debug("Card drawn", "session", s.id, "card", card.ID(), "score", s.score, "status", s.status)
	s.publish(EventCardDrawn, card)

	switch s.status {
	case Won:
		s.logger.Info("Player won", "session", s.id, "round", s.round, "cards", len(s.hand))
		s.publish(EventWon, deck.Card{})
	case Lost:
		s.logger.Info("Player bust", "session", s.id, "round", s.round, "score", s.score)
		s.publish(EventLost, deck.Card{})
	}

	return card, nil
}

// Stand ends the round keeping the current score.
// In a terminal status it returns an *ActionError and changes nothing.
func (s *Session) Stand() error {
	if s.status != InProgress {
		return &ActionError{Action: ActionStand, Status: s.status}
	}

	s.status = Standing
	s.logger.Info("Player stood", "session", s.id, "round", s.round, "score", s.score)
	s.publish(EventStood, deck.Card{})
	return nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Round returns the 1-based number of the current round
func (s *Session) Round() int {
	return s.round
}

// Status returns the current status
func (s *Session) Status() Status {
	return s.status
}

// Score returns the total of the cards in hand
func (s *Session) Score() int {
	return s.score
}

// Hand returns a copy of the cards drawn this round, in draw order
func (s *Session) Hand() []deck.Card {
	return copyCards(s.hand)
}

// Remaining returns the number of cards left in the deck
func (s *Session) Remaining() int {
	return s.deck.Remaining()
}

// State returns a snapshot of the session
func (s *Session) State() State {
	return State{
		SessionID: s.id,
		Round:     s.round,
		Hand:      copyCards(s.hand),
		Score:     s.score,
		Status:    s.status,
		Remaining: s.deck.Remaining(),
	}
}

func (s *Session) publish(eventType EventType, card deck.Card) {
	if len(s.handlers) == 0 {
		return
	}

	event := Event{
		Type:      eventType,
		SessionID: s.id,
		Round:     s.round,
		Card:      card,
		Hand:      copyCards(s.hand),
		Score:     s.score,
		Status:    s.status,
		Timestamp: s.now(),
	}
	for _, handler := range s.handlers {
		handler(event)
	}
}

// Score sums the values of the cards. Aces count 1.
func Score(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}

func copyCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
