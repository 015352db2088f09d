package deck

import "errors"

// Size is the number of cards in a full deck
const Size = 52

// ErrEmptyDeck is returned when drawing from a deck with no cards left
var ErrEmptyDeck = errors.New("deck is empty")

// Source is the random source used for shuffling and drawing.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Build returns the 52 cards of a standard deck in build order
// (suit by suit, Ace to King within each suit).
func Build() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle returns a uniformly permuted copy of cards using Fisher-Yates.
// The input slice is left untouched.
func Shuffle(cards []Card, rng Source) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)

	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Draw picks a card uniformly at random from cards and returns it together
// with a new slice holding every other card. Removal is by identity.
func Draw(cards []Card, rng Source) (Card, []Card, error) {
	if len(cards) == 0 {
		return Card{}, nil, ErrEmptyDeck
	}

	card := cards[rng.IntN(len(cards))]

	remaining := make([]Card, 0, len(cards)-1)
	for _, c := range cards {
		if c.ID() != card.ID() {
			remaining = append(remaining, c)
		}
	}
	return card, remaining, nil
}

// Deck represents the undealt cards of a single game
type Deck struct {
	cards []Card
	rng   Source
}

// New creates a full, shuffled 52-card deck
func New(rng Source) *Deck {
	return &Deck{
		cards: Shuffle(Build(), rng),
		rng:   rng,
	}
}

// FromCards creates a deck holding exactly the given cards in the given
// order. Useful for replaying a known deal.
func FromCards(cards []Card, rng Source) *Deck {
	d := &Deck{
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns a random card from the deck
func (d *Deck) Draw() (Card, error) {
	card, remaining, err := Draw(d.cards, d.rng)
	if err != nil {
		return Card{}, err
	}
	d.cards = remaining
	return card, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Contains reports whether the card is still in the deck
func (d *Deck) Contains(card Card) bool {
	for _, c := range d.cards {
		if c.ID() == card.ID() {
			return true
		}
	}
	return false
}

// Cards returns a copy of the remaining cards in deck order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
