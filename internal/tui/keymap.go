package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Focus
	Next key.Binding
	Prev key.Binding

	// Adjust the focused slider
	Decrease    key.Binding
	Increase    key.Binding
	BigDecrease key.Binding
	BigIncrease key.Binding
	Min         key.Binding
	Max         key.Binding

	// Actions
	Predict key.Binding
	Reset   key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down", "tab"),
			key.WithHelp("↓/j", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up", "shift+tab"),
			key.WithHelp("↑/k", "previous field"),
		),

		Decrease: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "-0.1"),
		),
		Increase: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "+0.1"),
		),
		BigDecrease: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "-1.0"),
		),
		BigIncrease: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "+1.0"),
		),
		Min: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "minimum"),
		),
		Max: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "maximum"),
		),

		Predict: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp("Enter/p", "predict species"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset inputs"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Increase, k.Predict, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Decrease, k.Increase, k.BigDecrease, k.BigIncrease},
		{k.Min, k.Max},
		{k.Predict, k.Reset},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
