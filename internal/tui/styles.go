package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/taskflow/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color
	Selected  lipgloss.Color

	// Status colors
	Backlog    lipgloss.Color
	Todo       lipgloss.Color
	InProgress lipgloss.Color
	Review     lipgloss.Color
	Done       lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow
	Text:      lipgloss.Color("#DFE6E9"), // Light gray
	Selected:  lipgloss.Color("#FFEAA7"), // Pale yellow

	Backlog:    lipgloss.Color("#636E72"),
	Todo:       lipgloss.Color("#74B9FF"),
	InProgress: lipgloss.Color("#FDCB6E"),
	Review:     lipgloss.Color("#A29BFE"),
	Done:       lipgloss.Color("#00B894"),
}

// Styles contains the lipgloss styles for the TUI.
type Styles struct {
	Header       lipgloss.Style
	HeaderMeta   lipgloss.Style
	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	ColumnTitle  lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardMeta     lipgloss.Style
	Overdue      lipgloss.Style
	Dialog       lipgloss.Style
	DetailLabel  lipgloss.Style
	DetailValue  lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Busy         lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Colors.Muted).
		Padding(0, 1)

	return Styles{
		Header:       lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		HeaderMeta:   lipgloss.NewStyle().Foreground(Colors.Secondary),
		Column:       column,
		ColumnActive: column.BorderForeground(Colors.Primary),
		ColumnTitle:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Card:         lipgloss.NewStyle().Foreground(Colors.Text),
		CardSelected: lipgloss.NewStyle().Foreground(Colors.Selected).Bold(true),
		CardMeta:     lipgloss.NewStyle().Foreground(Colors.Muted),
		Overdue:      lipgloss.NewStyle().Foreground(Colors.Error),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(1, 2),
		DetailLabel: lipgloss.NewStyle().Foreground(Colors.Muted).Width(12),
		DetailValue: lipgloss.NewStyle().Foreground(Colors.Text),
		Status:      lipgloss.NewStyle().Foreground(Colors.Success),
		Error:       lipgloss.NewStyle().Foreground(Colors.Error),
		Busy:        lipgloss.NewStyle().Foreground(Colors.Warning).Italic(true),
	}
}

// StatusColor returns the color for a board column.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusBacklog:
		return Colors.Backlog
	case domain.StatusTodo:
		return Colors.Todo
	case domain.StatusInProgress:
		return Colors.InProgress
	case domain.StatusReview:
		return Colors.Review
	case domain.StatusDone:
		return Colors.Done
	default:
		return Colors.Muted
	}
}

// PriorityStyle returns the style for a priority marker.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityHigh:
		return lipgloss.NewStyle().Foreground(Colors.Error)
	case domain.PriorityMedium:
		return lipgloss.NewStyle().Foreground(Colors.Warning)
	default:
		return lipgloss.NewStyle().Foreground(Colors.Muted)
	}
}
