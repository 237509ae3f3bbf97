package cli

import "github.com/charmbracelet/bubbles/key"

// viewerKeyMap defines the keybindings of the terminal viewer.
type viewerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	SepLeft   key.Binding
	SepRight  key.Binding
	LabelsFwd key.Binding
	LabelsBwd key.Binding
	Reset     key.Binding
	GoTo      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultViewerKeyMap() viewerKeyMap {
	return viewerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		SepLeft: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "narrow labels"),
		),
		SepRight: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "widen labels"),
		),
		LabelsFwd: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "scroll labels"),
		),
		LabelsBwd: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "scroll labels back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset view"),
		),
		GoTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to position"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.GoTo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.ZoomIn, k.ZoomOut, k.Reset, k.GoTo},
		{k.SepLeft, k.SepRight, k.LabelsFwd, k.LabelsBwd},
		{k.Help, k.Quit},
	}
}
