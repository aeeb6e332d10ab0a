package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dashboard.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
	Help      key.Binding

	Connect key.Binding
	CheckIn key.Binding
	Refresh key.Binding
	History key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c/enter", "connect wallet"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "check in"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "check-in history"),
		),
	}
}

// helpBindings lists the bindings shown in the help modal, in order.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Connect, k.CheckIn, k.Refresh, k.History, k.Help, k.Escape, k.Quit, k.ForceQuit}
}
