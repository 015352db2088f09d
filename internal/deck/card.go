package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Hearts
	Spades
	Diamonds
)

// Suits lists every suit in deck build order
var Suits = [...]Suit{Clubs, Hearts, Spades, Diamonds}

// String returns the suit name (e.g. "hearts")
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	case Diamonds:
		return "diamonds"
	default:
		return "?"
	}
}

// Glyph returns the unicode symbol used to display the suit
func (s Suit) Glyph() string {
	switch s {
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	case Diamonds:
		return "♦"
	default:
		return ""
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Color returns the display colour of the suit
func (s Suit) Color() Color {
	if s.IsRed() {
		return Red
	}
	return Black
}

func (s Suit) letter() byte {
	return "chsd"[s]
}

// Color is the ink a suit is printed in
type Color int

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in deck build order
var Ranks = [...]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the rank label as printed on the card face
func (r Rank) String() string {
	switch {
	case r == Ace:
		return "A"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	default:
		return "?"
	}
}

// Value returns the score the rank contributes to a hand.
// Aces always count 1 and court cards count 10.
func (r Rank) Value() int {
	switch {
	case r >= Jack && r <= King:
		return 10
	case r >= Ace && r <= Ten:
		return int(r)
	default:
		return 0
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short display form of a card (e.g., "A♥")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Glyph()
}

// ID returns the identity of the card, e.g. "10 of clubs".
// Two cards are the same card exactly when their IDs match.
func (c Card) ID() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Value returns the score value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Color returns the display colour of the card
func (c Card) Color() Color {
	return c.Suit.Color()
}

// IsValid reports whether the card has a known rank and suit
func (c Card) IsValid() bool {
	return c.Rank >= Ace && c.Rank <= King && c.Suit >= Clubs && c.Suit <= Diamonds
}

// Notation returns the compact parseable form, e.g. "10c" or "Ah"
func (c Card) Notation() string {
	if !c.IsValid() {
		return "??"
	}
	return c.Rank.String() + string(c.Suit.letter())
}

// MarshalText encodes the card in compact notation
func (c Card) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.Notation()), nil
}

// UnmarshalText decodes a card from compact notation
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
