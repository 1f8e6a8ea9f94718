package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI. Letter keys are left
// to the text input.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	complete key.Binding
	enter    key.Binding
	back     key.Binding
	scroll   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "use suggestion")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "new search")),
		scroll:   key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "scroll")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.complete, k.enter},
		{k.scroll, k.back, k.quit},
	}
}
