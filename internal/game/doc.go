// Package game implements the single-player BlackJack state machine.
//
// The main type is Session, which owns the deck, the cards drawn so far, the
// running score and the game Status. A session starts InProgress and moves to
// one of three terminal states:
//
//   - Won: the hand totals exactly 21
//   - Lost: the hand totals more than 21 (bust)
//   - Standing: the player chose to stop
//
// Aces always count 1 and there is no dealer; the only way to win is to hit
// 21 exactly.
//
// # Basic Usage
//
//	s := game.NewSession(randutil.NewSeeded(0))
//	card, err := s.DrawCard()
//	if errors.Is(err, game.ErrInvalidAction) {
//	    // game already over
//	}
//	if s.Status().IsTerminal() {
//	    s.Restart()
//	}
//
// # Deterministic Testing
//
// The random source is required and injected, so tests can pin every shuffle
// and draw:
//
//	s := game.NewSession(randutil.NewScripted(),
//	    game.WithDeck(deck.MustParseCards("10c Jh As")))
//
// With a scripted source that always yields 0 the session draws the fixed deck
// in order.
//
// # Presentation
//
// Renderers should depend on the Controller interface and read State
// snapshots; LocalController adapts a Session and the remote client
// implements the same contract over a WebSocket.
//
// Session is not safe for concurrent use. Each action runs to completion
// before the next is accepted.
package game
