package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/qfighter/internal/population"
)

// WatchKeyMap defines the key bindings of the spectator view.
type WatchKeyMap struct {
	Pause    key.Binding
	Step     key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Reset    key.Binding
	Priority key.Binding
	Swap     key.Binding
	Self     key.Binding
	Mirror0  key.Binding
	Mirror1  key.Binding
	Fresh    key.Binding
	Save     key.Binding
	History  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Priority, k.History, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Step, k.Faster, k.Slower},
		{k.Reset, k.Priority, k.Save, k.History},
		{k.Swap, k.Self, k.Mirror0, k.Mirror1, k.Fresh},
		{k.Help, k.Quit},
	}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "step"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Swap: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "load swapped"),
		),
		Self: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "load own"),
		),
		Mirror0: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all load A"),
		),
		Mirror1: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "all load B"),
		),
		Fresh: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "forget"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		History: key.NewBinding(
			key.WithKeys("h", "tab"),
			key.WithHelp("h", "history"),
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

// loadMode returns the load mode bound to one of the load keys.
func (k WatchKeyMap) loadMode(msg tea.KeyMsg) (population.LoadMode, bool) {
	switch {
	case key.Matches(msg, k.Swap):
		return population.LoadSwap, true
	case key.Matches(msg, k.Self):
		return population.LoadSelf, true
	case key.Matches(msg, k.Mirror0):
		return population.LoadMirror0, true
	case key.Matches(msg, k.Mirror1):
		return population.LoadMirror1, true
	case key.Matches(msg, k.Fresh):
		return population.LoadFresh, true
	}
	return population.LoadFresh, false
}
