package term

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause    key.Binding
	Reset    key.Binding
	Bypass   key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Left     key.Binding
	Right    key.Binding
	Channel0 key.Binding
	Channel1 key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Pause:    key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset max")),
	Bypass:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bypass")),
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "scroll")),
	Right:    key.NewBinding(key.WithKeys("right", "l")),
	Channel0: key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2", "toggle channel")),
	Channel1: key.NewBinding(key.WithKeys("2")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.ZoomIn, k.ZoomOut, k.Left, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Bypass},
		{k.ZoomIn, k.ZoomOut, k.Left},
		{k.Channel0, k.Help, k.Quit},
	}
}
