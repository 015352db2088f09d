package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned for card notation that cannot be parsed
var ErrInvalidCard = errors.New("invalid card")

// ParseCard parses compact notation such as "Ah", "10c" or "Ts".
// Ranks: A, 2-10 (or T), J, Q, K. Suits: c, h, s, d. Case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rank, err := parseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}

	suit, err := parseSuit(s[len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a run of cards, either separated by spaces or commas
// ("10c Ah") or concatenated ("10cAh").
func ParseCards(s string) ([]Card, error) {
	cards := []Card{}
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' }) {
		for len(field) > 0 {
			n := 2
			if strings.HasPrefix(field, "10") {
				n = 3
			}
			if len(field) < n {
				return nil, fmt.Errorf("%w: incomplete card %q", ErrInvalidCard, field)
			}

			card, err := ParseCard(field[:n])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
			field = field[n:]
		}
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, nil
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	default:
		return 0, fmt.Errorf("unknown rank %q", s)
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'c', 'C':
		return Clubs, nil
	case 'h', 'H':
		return Hearts, nil
	case 's', 'S':
		return Spades, nil
	case 'd', 'D':
		return Diamonds, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", c)
	}
}
