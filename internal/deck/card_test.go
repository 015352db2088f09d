package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankValue(t *testing.T) {
	tests := []struct {
		rank  Rank
		label string
		value int
	}{
		{Ace, "A", 1},
		{Two, "2", 2},
		{Five, "5", 5},
		{Nine, "9", 9},
		{Ten, "10", 10},
		{Jack, "J", 10},
		{Queen, "Q", 10},
		{King, "K", 10},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.rank.String())
			assert.Equal(t, tt.value, tt.rank.Value())
		})
	}
}

func TestSuitDisplay(t *testing.T) {
	tests := []struct {
		suit  Suit
		name  string
		glyph string
		color Color
	}{
		{Clubs, "clubs", "♣", Black},
		{Hearts, "hearts", "♥", Red},
		{Spades, "spades", "♠", Black},
		{Diamonds, "diamonds", "♦", Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.suit.String())
			assert.Equal(t, tt.glyph, tt.suit.Glyph())
			assert.Equal(t, tt.color, tt.suit.Color())
			assert.Equal(t, tt.color == Red, tt.suit.IsRed())
		})
	}
}

func TestCardIdentity(t *testing.T) {
	c := NewCard(Ten, Clubs)
	assert.Equal(t, "10 of clubs", c.ID())
	assert.Equal(t, "10♣", c.String())
	assert.Equal(t, "10c", c.Notation())
	assert.Equal(t, 10, c.Value())

	assert.Equal(t, "A of hearts", NewCard(Ace, Hearts).ID())
	assert.NotEqual(t, NewCard(Ace, Hearts).ID(), NewCard(Ace, Spades).ID())
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "space separated",
			input: "10c Ah",
			expected: []Card{
				{Rank: Ten, Suit: Clubs},
				{Rank: Ace, Suit: Hearts},
			},
		},
		{
			name:  "concatenated with ten",
			input: "9c9h10s",
			expected: []Card{
				{Rank: Nine, Suit: Clubs},
				{Rank: Nine, Suit: Hearts},
				{Rank: Ten, Suit: Spades},
			},
		},
		{
			name:  "T alias and case insensitive",
			input: "tD,kS,jc",
			expected: []Card{
				{Rank: Ten, Suit: Diamonds},
				{Rank: King, Suit: Spades},
				{Rank: Jack, Suit: Clubs},
			},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
		{
			name:    "invalid rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:    "incomplete card",
			input:   "AsK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCards(t *testing.T) {
	assert.Equal(t, []Card{{Rank: Queen, Suit: Diamonds}}, MustParseCards("Qd"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardJSON(t *testing.T) {
	hand := []Card{NewCard(Ten, Clubs), NewCard(Ace, Hearts)}

	data, err := json.Marshal(hand)
	require.NoError(t, err)
	assert.JSONEq(t, `["10c","Ah"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, hand, decoded)

	_, err = json.Marshal(Card{})
	assert.Error(t, err)
}
