package tui

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newModel builds a model over a local session dealing cards in order
func newModel(t *testing.T, cards string) (*Model, *history.Recorder) {
	t.Helper()
	session := game.NewSession(randutil.NewScripted(),
		game.WithDeck(deck.MustParseCards(cards)),
		game.WithLogger(quietLogger()),
		game.WithID("session-0123456789"),
	)
	recorder := history.NewRecorder(quietLogger())
	m := NewModel(game.NewLocalController(session, quietLogger()), recorder, quietLogger())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, recorder
}

// press sends a key and runs any resulting action to completion
func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	runAction(t, m, cmd)
}

// typeCommand enters a line into the command input
func typeCommand(t *testing.T, m *Model, input string) {
	t.Helper()
	m.actionInput.SetValue(input)
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.actionInput.Value())
}

func runAction(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(stateMsg); ok {
		m.Update(msg)
	}
}

var (
	ctrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	ctrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func TestCardFace(t *testing.T) {
	assert.Equal(t, "A    \n  ♥  \n    A", cardFace(deck.NewCard(deck.Ace, deck.Hearts)))
	assert.Equal(t, "10   \n  ♣  \n   10", cardFace(deck.NewCard(deck.Ten, deck.Clubs)))

	box := RenderCard(deck.NewCard(deck.King, deck.Spades))
	lines := strings.Split(box, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "╭─────╮", lines[0])
	assert.Equal(t, "│K    │", lines[1])
	assert.Equal(t, "│  ♠  │", lines[2])
	assert.Equal(t, "│    K│", lines[3])
	assert.Equal(t, "╰─────╯", lines[4])
}

func TestRenderHand(t *testing.T) {
	assert.Contains(t, RenderHand(nil), "No cards yet")

	hand := RenderHand(deck.MustParseCards("Ac 10d"))
	lines := strings.Split(hand, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "│A    ││10   │", lines[1])
	assert.Equal(t, "│  ♣  ││  ♦  │", lines[2])
}

func TestKeyboardPlay(t *testing.T) {
	m, recorder := newModel(t, "10c Jh As 2d")

	press(t, m, ctrlD)
	press(t, m, ctrlD)
	assert.Equal(t, 20, m.State().Score)
	assert.Equal(t, game.InProgress, m.State().Status)

	press(t, m, ctrlD)
	assert.Equal(t, 21, m.State().Score)
	assert.Equal(t, game.Won, m.State().Status)

	log := m.LogEntries()
	assert.Equal(t, "Drew 10♣ (points: 10)", log[1])
	assert.Equal(t, "Drew A♠ (points: 21)", log[3])
	assert.Equal(t, "Congratulations!!!", log[len(log)-1])
	assert.Equal(t, 1, recorder.Stats().Wins)

	// the key is disabled once the round is over
	press(t, m, ctrlD)
	assert.Len(t, m.State().Hand, 3)

	press(t, m, ctrlR)
	assert.Equal(t, game.InProgress, m.State().Status)
	assert.Empty(t, m.State().Hand)
	assert.Equal(t, 2, m.State().Round)
	assert.Contains(t, m.LogEntries(), "Round 2 started with a fresh deck")
}

func TestTypedCommands(t *testing.T) {
	m, recorder := newModel(t, "9c 9h 5s")

	typeCommand(t, m, "draw")
	typeCommand(t, m, " HIT ")
	typeCommand(t, m, "d")
	assert.Equal(t, game.Lost, m.State().Status)
	assert.Equal(t, 23, m.State().Score)
	assert.Equal(t, "You lose!", last(m.LogEntries()))
	assert.Equal(t, 1, recorder.Stats().Losses)

	// typed commands reach the session, which rejects them
	typeCommand(t, m, "draw")
	assert.Equal(t, "✗ cannot draw: game is lost", last(m.LogEntries()))
	typeCommand(t, m, "stand")
	assert.Equal(t, "✗ cannot stand: game is lost", last(m.LogEntries()))
	assert.Equal(t, game.Lost, m.State().Status)

	typeCommand(t, m, "split")
	assert.Equal(t, `Unknown command "split". Type 'help' for commands.`, last(m.LogEntries()))

	before := len(m.LogEntries())
	typeCommand(t, m, "help")
	assert.Greater(t, len(m.LogEntries()), before)
	assert.Equal(t, "Commands:", m.LogEntries()[before])

	typeCommand(t, m, "r")
	assert.Equal(t, game.InProgress, m.State().Status)
}

func TestStandFlow(t *testing.T) {
	m, recorder := newModel(t, "10c 5h 6s")

	press(t, m, ctrlD)
	press(t, m, ctrlD)
	press(t, m, ctrlS)

	assert.Equal(t, game.Standing, m.State().Status)
	assert.Equal(t, "You stopped with 15 points!", last(m.LogEntries()))
	assert.Equal(t, 15, recorder.Stats().BestStand)
}

func TestButtonsFollowStatus(t *testing.T) {
	m, _ := newModel(t, "10c 5h 6s")

	for _, b := range m.buttons() {
		assert.True(t, b.enabled, b.label)
	}
	assert.Contains(t, m.View(), "[Get Card] [Stand] [Restart]")

	press(t, m, ctrlS)
	buttons := m.buttons()
	require.Len(t, buttons, 3)
	assert.Equal(t, button{label: "Get Card", enabled: false}, buttons[0])
	assert.Equal(t, button{label: "Stand", enabled: false}, buttons[1])
	assert.Equal(t, button{label: "Restart", enabled: true}, buttons[2])
	assert.False(t, m.keys.Draw.Enabled())
	assert.False(t, m.keys.Stand.Enabled())

	press(t, m, ctrlR)
	for _, b := range m.buttons() {
		assert.True(t, b.enabled, b.label)
	}
	assert.True(t, m.keys.Draw.Enabled())
}

func TestView(t *testing.T) {
	m, _ := newModel(t, "Ah 10d")
	press(t, m, ctrlD)

	view := m.View()
	assert.Contains(t, view, Title)
	assert.Contains(t, view, "Points: 1")
	assert.Contains(t, view, "1 card left in deck")
	assert.NotContains(t, view, "1 cards")
	assert.Contains(t, view, "│  ♥  │")
	assert.Contains(t, view, "Session 23456789")
	assert.Contains(t, view, "(points: 1)")

	fresh := NewModel(game.NewLocalController(game.NewSession(randutil.New(1)), nil), nil, nil)
	assert.Equal(t, "Loading...", fresh.View())
	fresh.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, fresh.View(), "52 cards left in deck")
}

func TestQuit(t *testing.T) {
	for _, input := range []string{"quit", "q", "exit"} {
		t.Run(input, func(t *testing.T) {
			m, _ := newModel(t, "2c")
			m.actionInput.SetValue(input)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			assert.NotNil(t, cmd)
			assert.True(t, m.Quitting())
			assert.Empty(t, m.View())
		})
	}

	m, _ := newModel(t, "2c")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.Quitting())
}

func TestOneActionInFlight(t *testing.T) {
	m, _ := newModel(t, "2c 3c")

	_, first := m.Update(ctrlD)
	require.NotNil(t, first)
	_, second := m.Update(ctrlD)
	assert.Nil(t, second)

	runAction(t, m, first)
	assert.Len(t, m.State().Hand, 1)
}

func TestEmptyDeckIsReported(t *testing.T) {
	m, _ := newModel(t, "2c")
	press(t, m, ctrlD)
	press(t, m, ctrlD)

	assert.Equal(t, "✗ "+deck.ErrEmptyDeck.Error(), last(m.LogEntries()))
	assert.Equal(t, game.InProgress, m.State().Status)
}

// stubController fails every action, like a dropped remote
type stubController struct {
	state game.State
}

var errGone = errors.New("disconnected from server")

func (s *stubController) DrawCard() error   { return errGone }
func (s *stubController) Stand() error      { return errGone }
func (s *stubController) Restart() error    { return errGone }
func (s *stubController) State() game.State { return s.state }

func TestDisconnected(t *testing.T) {
	done := make(chan struct{})
	stub := &stubController{state: game.State{SessionID: "remote", Round: 1, Status: game.InProgress, Remaining: 52}}
	m := NewModel(stub, nil, quietLogger(), WithDone(done), WithSubtitle("ws://example:8080/ws"))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	press(t, m, ctrlD)
	assert.Equal(t, "✗ disconnected from server", last(m.LogEntries()))

	close(done)
	m.Update(disconnectedMsg{})
	assert.Equal(t, "Disconnected from server. Press esc to quit.", last(m.LogEntries()))
	for _, b := range m.buttons() {
		assert.False(t, b.enabled, b.label)
	}

	_, cmd := m.Update(ctrlD)
	assert.Nil(t, cmd)
	assert.Equal(t, "Not connected.", last(m.LogEntries()))
	assert.Contains(t, m.View(), "ws://example:8080/ws")
}

func last(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1]
}
