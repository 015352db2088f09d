package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for content elements
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B7A3E")).
			Padding(0, 1).
			Bold(true)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	// card faces are light so both suit colours read on a dark terminal
	cardFaceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Background(lipgloss.Color("#FAFAFA")).
			Bold(true)

	RedCardStyle = cardFaceStyle.
			Foreground(lipgloss.Color("#D62828"))

	BlackCardStyle = cardFaceStyle.
			Foreground(lipgloss.Color("#000000"))

	cardChipStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FAFAFA")).
			Padding(0, 1).
			Bold(true)

	RedChipStyle   = cardChipStyle.Foreground(lipgloss.Color("#D62828"))
	BlackChipStyle = cardChipStyle.Foreground(lipgloss.Color("#000000"))

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4A4A4A")).
				Strikethrough(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
