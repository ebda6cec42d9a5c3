// Package tui provides the interactive board for taskflow.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal     Mode = iota // Board navigation
	ModeInputTitle             // Title input for a new task
	ModeConfirm                // Delete confirmation
	ModeDetail                 // Task detail view
	ModeHelp                   // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInputTitle:
		return "input_title"
	case ModeConfirm:
		return "confirm"
	case ModeDetail:
		return "detail"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	return m == ModeInputTitle
}
