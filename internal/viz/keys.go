package viz

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the live view.
type KeyMap struct {
	Quit   key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Trails key.Binding
	Faster key.Binding
	Slower key.Binding
	Record key.Binding
	Help   key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Trails: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trails"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Record: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "record gif"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp lists the bindings shown in the stats panel footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Trails, k.Faster, k.Slower, k.Record, k.Help, k.Quit}
}
