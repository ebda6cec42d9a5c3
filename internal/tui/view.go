package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/view"
)

const (
	minColumnWidth = 18
	defaultWidth   = 100
	dateLayout     = time.DateOnly
)

// View renders the TUI.
func (m *Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.styles.Dialog.Render(m.help.FullHelpView(m.keys.FullHelp()))
	case ModeDetail:
		if t := m.SelectedTask(); t != nil {
			return m.styles.Dialog.Render(m.detailView(t))
		}
	case ModeNormal, ModeInputTitle, ModeConfirm:
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.boardView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m *Model) headerView() string {
	title := m.styles.Header.Render("taskflow") + " " + m.styles.HeaderMeta.Render(string(m.board))
	if m.sprint == nil {
		return title
	}
	p := m.progress
	meta := fmt.Sprintf("%s  %d/%d pts (%.0f%%)  %d day(s) left",
		m.sprint.Name, p.CompletedPoints, p.TotalPoints, p.CompletionRate(), p.RemainingDays())
	return title + "  " + m.styles.HeaderMeta.Render(meta)
}

func (m *Model) boardView() string {
	if len(m.columns) == 0 {
		return m.styles.CardMeta.Render("No board to show. Press tab to switch boards.")
	}

	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	// Border and padding take four cells per column.
	colWidth := max(width/len(m.columns)-4, minColumnWidth)

	now := m.container.Clock.Now()
	rendered := make([]string, 0, len(m.columns))
	for ci, col := range m.columns {
		rendered = append(rendered, m.columnView(ci, col, colWidth, now))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) columnView(ci int, col view.Column, width int, now time.Time) string {
	header := m.styles.ColumnTitle.Foreground(StatusColor(col.Status)).
		Render(fmt.Sprintf("%s (%d)", col.Status.Display(), len(col.Tasks)))

	lines := []string{header}
	for ri, t := range col.Tasks {
		selected := ci == m.col && ri == m.row
		lines = append(lines, m.cardView(t, width, selected, view.Overdue(t, now)))
	}

	style := m.styles.Column
	if ci == m.col {
		style = m.styles.ColumnActive
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) cardView(t *domain.Task, width int, selected, overdue bool) string {
	marker := PriorityStyle(t.Priority).Render("●")
	title := runewidth.Truncate(t.Title, width-2, "…")

	titleStyle := m.styles.Card
	if selected {
		titleStyle = m.styles.CardSelected
	}
	line := marker + " " + titleStyle.Render(title)

	var meta []string
	if t.StoryPoints > 0 {
		meta = append(meta, fmt.Sprintf("%d pts", t.StoryPoints))
	}
	if t.DueDate != nil {
		due := "due " + t.DueDate.Format(dateLayout)
		if overdue {
			meta = append(meta, m.styles.Overdue.Render(due))
		} else {
			meta = append(meta, due)
		}
	}
	if len(meta) > 0 {
		line += "\n  " + m.styles.CardMeta.Render(strings.Join(meta, " · "))
	}
	return line
}

func (m *Model) footerView() string {
	var lines []string
	switch m.mode {
	case ModeInputTitle:
		lines = append(lines, "New task: "+m.titleInput.View())
	case ModeConfirm:
		if t := m.SelectedTask(); t != nil {
			lines = append(lines, m.styles.Error.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title)))
		}
	case ModeNormal, ModeDetail, ModeHelp:
	}

	switch {
	case m.err != nil:
		lines = append(lines, m.styles.Error.Render("Error: "+m.err.Error()))
	case m.aiBusy():
		lines = append(lines, m.styles.Busy.Render("AI is thinking..."))
	case m.status != "":
		lines = append(lines, m.styles.Status.Render(m.status))
	}

	lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	return strings.Join(lines, "\n")
}

func (m *Model) detailView(t *domain.Task) string {
	row := func(label, value string) string {
		return m.styles.DetailLabel.Render(label) + m.styles.DetailValue.Render(value)
	}

	lines := []string{
		m.styles.Header.Render(t.Title),
		"",
		row("ID", t.ID),
		row("Board", string(t.BoardType)),
		row("Status", t.Status.Display()),
		row("Priority", string(t.Priority)),
	}
	if t.StoryPoints > 0 {
		lines = append(lines, row("Points", fmt.Sprintf("%d", t.StoryPoints)))
	}
	if t.EstimatedTime != "" {
		lines = append(lines, row("Estimate", t.EstimatedTime+"h"))
	}
	if t.DueDate != nil {
		lines = append(lines, row("Due", t.DueDate.Format(dateLayout)))
	}
	if len(t.Tags) > 0 {
		lines = append(lines, row("Tags", strings.Join(t.Tags, ", ")))
	}
	if t.Description != "" {
		lines = append(lines, "", t.Description)
	}
	if len(t.AcceptanceCriteria) > 0 {
		lines = append(lines, "", m.styles.DetailLabel.Render("Criteria"))
		for i, c := range t.AcceptanceCriteria {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, c))
		}
	}
	return strings.Join(lines, "\n")
}
