package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding // Previous column
	Right key.Binding // Next column

	// Task management
	New      key.Binding
	MoveNext key.Binding // Move task one column right
	MovePrev key.Binding // Move task one column left
	Delete   key.Binding
	Detail   key.Binding

	// View
	SwitchBoard key.Binding // Toggle kanban and scrum
	Suggest     key.Binding // Ask the advisor for a priority
	Refresh     key.Binding
	Help        key.Binding

	// General
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next column"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		MoveNext: key.NewBinding(
			key.WithKeys("]", ">"),
			key.WithHelp("]", "move right"),
		),
		MovePrev: key.NewBinding(
			key.WithKeys("[", "<"),
			key.WithHelp("[", "move left"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		SwitchBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch board"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AI priority"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.MoveNext, k.MovePrev, k.SwitchBoard, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.New, k.MoveNext, k.MovePrev, k.Delete, k.Detail},
		{k.SwitchBoard, k.Suggest, k.Refresh},
		{k.Help, k.Escape, k.Quit},
	}
}
