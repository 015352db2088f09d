package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/deck"
)

// cardFace returns the three lines inside a card's border: rank top-left,
// suit glyph centre, rank bottom-right.
func cardFace(c deck.Card) string {
	rank := c.Rank.String()
	return fmt.Sprintf("%-5s\n  %s  \n%5s", rank, c.Suit.Glyph(), rank)
}

// RenderCard draws one card as a bordered box coloured by suit
func RenderCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(cardFace(c))
	}
	return BlackCardStyle.Render(cardFace(c))
}

// RenderHand draws the cards side by side in draw order
func RenderHand(cards []deck.Card) string {
	if len(cards) == 0 {
		return InfoStyle.Render("No cards yet. Get a card to start.")
	}

	boxes := make([]string, len(cards))
	for i, c := range cards {
		boxes[i] = RenderCard(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// formatCard renders a card inline, e.g. for the log
func formatCard(c deck.Card) string {
	if c.IsRed() {
		return RedChipStyle.Render(c.String())
	}
	return BlackChipStyle.Render(c.String())
}
