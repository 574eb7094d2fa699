package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings shown in the wizard footer. Step-local
// navigation belongs to the active huh form.
type KeyMap struct {
	Quit key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "save & quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}
