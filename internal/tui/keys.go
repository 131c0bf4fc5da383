package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	ZoomIn, ZoomOut       key.Binding
	Reset                 key.Binding
	Prev, Next            key.Binding
	Select                key.Binding
	Sidebar               key.Binding
	Paste                 key.Binding
	Table                 key.Binding
	Export                key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Prev:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev point")),
		Next:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next point")),
		Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Sidebar: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "import")),
		Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste batch")),
		Table:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "points")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export svg")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Next, k.Select, k.Sidebar, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Prev, k.Next, k.Select},
		{k.Sidebar, k.Paste, k.Table, k.Export},
		{k.Help, k.Quit},
	}
}
