package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetZoom key.Binding
	Fit       key.Binding
	Reheat    key.Binding
	Global    key.Binding
	Copy      key.Binding
	List      key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		ResetZoom: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Fit:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		Reheat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reheat")),
		Global:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "local/global")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		List:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "neighbors")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Global, k.List, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.ResetZoom, k.Fit},
		{k.Reheat, k.Global, k.Copy},
		{k.List, k.Up, k.Down, k.Open},
		{k.Help, k.Quit},
	}
}
