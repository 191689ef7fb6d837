package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/mensahub/mensad/internal/i18n"
)

// weeksKeyMap describes the bindings available in the weeks list.
type weeksKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Filter key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (km weeksKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Open, km.Filter, km.Reload, km.Quit}
}

func (km weeksKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Up, km.Down, km.Open}, {km.Filter, km.Reload, km.Quit}}
}

// weeksKeyMap implements help.KeyMap
var _ help.KeyMap = (*weeksKeyMap)(nil)

// newWeeksKeyMap builds the bindings at runtime so the help labels pick up
// the active locale. Package-level construction would run before i18n.Init.
func newWeeksKeyMap() weeksKeyMap {
	return weeksKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", i18n.T("tui.help_up")),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", i18n.T("tui.help_down")),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("tui.help_open")),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", i18n.T("tui.help_filter")),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.T("tui.help_reload")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", i18n.T("tui.help_quit")),
		),
	}
}

// detailKeyMap describes the bindings available in the week detail view.
type detailKeyMap struct {
	Back   key.Binding
	Copy   key.Binding
	Reload key.Binding
}

func (km detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Back, km.Copy, km.Reload}
}

func (km detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Back}, {km.Copy, km.Reload}}
}

// detailKeyMap implements help.KeyMap
var _ help.KeyMap = (*detailKeyMap)(nil)

func newDetailKeyMap() detailKeyMap {
	return detailKeyMap{
		Back: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", i18n.T("tui.help_back")),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", i18n.T("tui.help_copy")),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.T("tui.help_reload")),
		),
	}
}
