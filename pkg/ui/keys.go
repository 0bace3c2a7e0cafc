package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the viewer's key bindings. It implements help.KeyMap.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	// Button presses are navigation plus a tracked control click.
	NextButton key.Binding
	PrevButton key.Binding
	LineDown   key.Binding
	LineUp     key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "down"),
			key.WithHelp("→/↓", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "up"),
			key.WithHelp("←/↑", "prev"),
		),
		NextButton: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next ▶"),
		),
		PrevButton: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "◀ prev"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "scroll down"),
		),
		LineUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "scroll up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown", " "),
			key.WithHelp("ctrl+d/pgdn/space", "half page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u/pgup", "half page up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "bottom"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PrevButton, k.NextButton},
		{k.LineUp, k.LineDown, k.HalfUp, k.HalfDown},
		{k.Top, k.Bottom},
		{k.Copy, k.Help, k.Quit},
	}
}
