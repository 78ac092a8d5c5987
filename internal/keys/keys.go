package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Inbox sub-filters
	FilterAll           key.Binding
	FilterParticipating key.Binding
	FilterRepo          key.Binding

	// Read-state actions
	MarkRead     key.Binding
	MarkRepoRead key.Binding
	MarkAllRead  key.Binding
	MarkUnread   key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open item"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all notifications"),
		),
		FilterParticipating: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "participating"),
		),
		FilterRepo: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "this repository"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "mark read"),
		),
		MarkRepoRead: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "mark repo read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		MarkUnread: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "mark as unread"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.MarkRead, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.FilterAll, k.FilterParticipating, k.FilterRepo, k.Refresh},
		{k.MarkRead, k.MarkRepoRead, k.MarkAllRead, k.MarkUnread},
		{k.Help},
	}
}
