// Package tui is the terminal front end: a Bubble Tea program that renders
// a game through game.Controller, so it plays local and remote sessions
// the same way.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
)

// Title is shown at the top of the action pane
const Title = "BlackJack!!!"

const sidebarWidth = 26

// Option configures a Model
type Option func(*Model)

// WithDone makes the model report a lost connection when done is closed
func WithDone(done <-chan struct{}) Option {
	return func(m *Model) {
		m.done = done
	}
}

// WithSubtitle sets the text shown next to the title, e.g. the server address
func WithSubtitle(subtitle string) Option {
	return func(m *Model) {
		m.subtitle = subtitle
	}
}

// Model is the Bubble Tea model for a game
type Model struct {
	controller game.Controller
	recorder   *history.Recorder
	logger     *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model
	help        help.Model
	keys        keyMap

	// State
	state        game.State
	gameLog      []string
	plainLog     []string
	pending      bool
	disconnected bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input
	done         <-chan struct{}
	subtitle     string

	// Dimensions
	width       int
	height      int
	initialized bool
}

// stateMsg carries the outcome of an action run against the controller
type stateMsg struct {
	action game.Action
	state  game.State
	err    error
}

// disconnectedMsg reports that a remote session went away
type disconnectedMsg struct{}

// NewModel creates a model over controller. Finished rounds are reported to
// recorder, which also feeds the sidebar statistics.
func NewModel(controller game.Controller, recorder *history.Recorder, logger *log.Logger, opts ...Option) *Model {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if recorder == nil {
		recorder = history.NewRecorder(logger)
	}

	// sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "draw, stand, restart, help or quit"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		controller:  controller,
		recorder:    recorder,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		help:        help.New(),
		keys:        defaultKeyMap(),
		state:       controller.State(),
		focusedPane: 1,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.keys.setEnabled(m.state.CanDraw())
	m.AddLogEntry(fmt.Sprintf("Round %d started. Type 'help' for commands.", m.state.Round))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.done != nil {
		done := m.done
		cmds = append(cmds, func() tea.Msg {
			<-done
			return disconnectedMsg{}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case stateMsg:
		m.applyResult(msg)
		return m, nil

	case disconnectedMsg:
		m.disconnected = true
		m.addLog("Disconnected from server. Press esc to quit.",
			ErrorStyle.Render("Disconnected from server. Press esc to quit."))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Draw):
			return m, m.perform(game.ActionDraw)
		case key.Matches(msg, m.keys.Stand):
			return m, m.perform(game.ActionStand)
		case key.Matches(msg, m.keys.Restart):
			return m, m.perform(game.ActionRestart)
		case key.Matches(msg, m.keys.Focus):
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
			return m, nil
		case msg.Type == tea.KeyEnter && m.focusedPane == 1:
			input := m.actionInput.Value()
			m.actionInput.SetValue("")
			return m, m.processInput(input)
		}
	}

	var cmd tea.Cmd

	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// processInput handles a line typed into the command input
func (m *Model) processInput(input string) tea.Cmd {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "":
		return nil
	case "help", "?":
		m.showHelp()
		return nil
	case "quit", "q", "exit":
		return m.quit()
	}

	action, ok := game.ParseAction(input)
	if !ok {
		text := fmt.Sprintf("Unknown command %q. Type 'help' for commands.", input)
		m.addLog(text, ErrorStyle.Render(text))
		return nil
	}
	return m.perform(action)
}

func (m *Model) showHelp() {
	for _, line := range []string{
		"Commands:",
		"  draw, d, hit   - Get a card",
		"  stand, s       - Stop with your current points",
		"  restart, r     - Shuffle a new deck and start over",
		"  help, ?        - Show this help",
		"  quit, q        - Quit the game",
	} {
		m.AddLogEntry(line)
	}
}

// perform returns a tea.Cmd that applies action to the controller. Bubble Tea
// runs it on its own goroutine, not the update loop; the pending flag keeps
// a single action in flight so the controller is never called concurrently.
func (m *Model) perform(action game.Action) tea.Cmd {
	if m.pending {
		return nil
	}
	if m.disconnected {
		m.addLog("Not connected.", ErrorStyle.Render("Not connected."))
		return nil
	}

	m.pending = true
	controller := m.controller
	return func() tea.Msg {
		err := game.Apply(controller, action)
		return stateMsg{action: action, state: controller.State(), err: err}
	}
}

func (m *Model) applyResult(msg stateMsg) {
	m.pending = false

	if msg.err != nil {
		m.logger.Error("Action failed", "action", msg.action, "error", msg.err)
		text := "✗ " + msg.err.Error()
		m.addLog(text, ErrorStyle.Render(text))
		m.state = msg.state
		m.keys.setEnabled(m.state.CanDraw())
		return
	}

	m.state = msg.state
	m.keys.setEnabled(m.state.CanDraw())
	m.recorder.Observe(m.state)

	switch msg.action {
	case game.ActionDraw:
		if n := len(m.state.Hand); n > 0 {
			card := m.state.Hand[n-1]
			m.addLog(fmt.Sprintf("Drew %s (points: %d)", card, m.state.Score),
				fmt.Sprintf("Drew %s (points: %d)", formatCard(card), m.state.Score))
		}
	case game.ActionStand:
		m.AddLogEntry(fmt.Sprintf("Stood on %d", m.state.Score))
	case game.ActionRestart:
		m.AddLogEntry("")
		m.AddLogEntry(fmt.Sprintf("Round %d started with a fresh deck", m.state.Round))
	}

	if m.state.Status.IsTerminal() {
		text := m.state.Message()
		m.addLog(text, statusStyle(m.state.Status).Render(text))
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1))
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right of the log, same height)
	topHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(topHeight).
		Render(m.renderSidebarPane())

	// Log pane (top, fills the rest)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = logWidth
	m.logViewport.Height = topHeight

	if !m.initialized && logWidth > 1 && topHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(topHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderActionPane renders the table: title, hand, status, buttons and input
func (m *Model) renderActionPane() string {
	var content strings.Builder

	content.WriteString(TitleStyle.Render(Title))
	if m.subtitle != "" {
		content.WriteString(" ")
		content.WriteString(InfoStyle.Render(m.subtitle))
	}
	content.WriteString("\n\n")

	content.WriteString(RenderHand(m.state.Hand))
	content.WriteString("\n")
	content.WriteString(m.renderStatus())
	content.WriteString("\n\n")
	content.WriteString(m.renderButtons())
	content.WriteString("\n")

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn page, Tab to input"))
	} else {
		content.WriteString(m.help.View(m.keys))
	}

	return content.String()
}

func (m *Model) renderStatus() string {
	return statusStyle(m.state.Status).Render(m.state.Message()) +
		InfoStyle.Render("  ·  "+cardsLeft(m.state.Remaining))
}

func cardsLeft(n int) string {
	if n == 1 {
		return "1 card left in deck"
	}
	return fmt.Sprintf("%d cards left in deck", n)
}

func statusStyle(status game.Status) lipgloss.Style {
	switch status {
	case game.Won:
		return SuccessStyle
	case game.Lost:
		return ErrorStyle
	case game.Standing:
		return WarningStyle
	default:
		return HandInfoStyle
	}
}

// button is one entry of the action bar
type button struct {
	label   string
	enabled bool
}

// buttons returns the action bar. Draw and stand are only enabled while the
// round is in progress.
func (m *Model) buttons() []button {
	canDraw := m.state.CanDraw() && !m.disconnected
	return []button{
		{label: "Get Card", enabled: canDraw},
		{label: "Stand", enabled: canDraw},
		{label: "Restart", enabled: !m.disconnected},
	}
}

func (m *Model) renderButtons() string {
	var rendered []string
	for _, b := range m.buttons() {
		label := "[" + b.label + "]"
		if b.enabled {
			rendered = append(rendered, ButtonStyle.Render(label))
		} else {
			rendered = append(rendered, DisabledButtonStyle.Render(label))
		}
	}
	return strings.Join(rendered, " ")
}

// renderSidebarPane shows the session and its statistics
func (m *Model) renderSidebarPane() string {
	var content strings.Builder
	stats := m.recorder.Stats()

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Round %d", m.state.Round)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Session " + shortID(m.state.SessionID)))
	content.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Rounds", fmt.Sprintf("%d", stats.Rounds)},
		{"Won", fmt.Sprintf("%d", stats.Wins)},
		{"Lost", fmt.Sprintf("%d", stats.Losses)},
		{"Stood", fmt.Sprintf("%d", stats.Stands)},
		{"Best stand", fmt.Sprintf("%d", stats.BestStand)},
		{"Avg points", fmt.Sprintf("%.1f", stats.Mean())},
		{"Win rate", fmt.Sprintf("%.0f%%", stats.WinRate()*100)},
	}
	for _, row := range rows {
		content.WriteString(fmt.Sprintf("%-11s %s\n", row.label, row.value))
	}

	return content.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// AddLogEntry adds a plain entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.addLog(entry, GameLogStyle.Render(entry))
}

func (m *Model) addLog(plain, rendered string) {
	m.gameLog = append(m.gameLog, rendered)
	m.plainLog = append(m.plainLog, plain)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// LogEntries returns the log without styling
func (m *Model) LogEntries() []string {
	result := make([]string, len(m.plainLog))
	copy(result, m.plainLog)
	return result
}

// State returns the last state the model rendered
func (m *Model) State() game.State {
	return m.state
}

// Quitting reports whether the user asked to quit
func (m *Model) Quitting() bool {
	return m.quitting
}
