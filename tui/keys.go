package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tap      key.Binding
	Hold     key.Binding
	PotDown  key.Binding
	PotUp    key.Binding
	PotDown8 key.Binding
	PotUp8   key.Binding
	Center   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Tap: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "tap"),
		),
		Hold: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "press/release"),
		),
		PotDown: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "knob"),
		),
		PotUp: key.NewBinding(
			key.WithKeys("right"),
		),
		PotDown8: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[/]", "knob coarse"),
		),
		PotUp8: key.NewBinding(
			key.WithKeys("]"),
		),
		Center: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "center knob"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Hold, k.PotDown, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.Hold},
		{k.PotDown, k.PotDown8, k.Center},
		{k.Help, k.Quit},
	}
}
