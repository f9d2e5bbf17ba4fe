package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Grab   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev section")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next section")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pick up")),
		Drop:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "drop"), key.WithDisabled()),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"), key.WithDisabled()),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// setDragging toggles which of grab/drop+cancel are live.
func (k *keyMap) setDragging(dragging bool) {
	k.Grab.SetEnabled(!dragging)
	k.Drop.SetEnabled(dragging)
	k.Cancel.SetEnabled(dragging)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Drop, k.Cancel, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Grab, k.Drop, k.Cancel},
		{k.Help, k.Quit},
	}
}
