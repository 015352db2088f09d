package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Draw    key.Binding
	Stand   key.Binding
	Restart key.Binding
	Focus   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Draw: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "get card"),
		),
		Stand: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "stand"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restart"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scroll log"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Draw, k.Stand, k.Restart, k.Focus, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Draw, k.Stand, k.Restart}, {k.Focus, k.Quit}}
}

// setEnabled greys out bindings that the current state does not allow
func (k *keyMap) setEnabled(canDraw bool) {
	k.Draw.SetEnabled(canDraw)
	k.Stand.SetEnabled(canDraw)
}
