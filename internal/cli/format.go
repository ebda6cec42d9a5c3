package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/view"
)

// dateLayout is the layout of dates given on the command line.
const dateLayout = time.DateOnly

// shortIDLen is the number of ID characters shown in tables.
const shortIDLen = 8

// shortID abbreviates an ID for display. Any unique prefix is accepted back
// as a task or sprint reference.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// parseDate parses a YYYY-MM-DD date in the local time zone.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPoints(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return "[" + strings.Join(tags, ",") + "]"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// printTaskList prints tasks in a table.
func printTaskList(w io.Writer, tasks []*domain.Task, now time.Time) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tBOARD\tSTATUS\tPRIORITY\tPOINTS\tDUE\tTAGS\tTITLE")
	for _, t := range tasks {
		due := formatDate(t.DueDate)
		if view.Overdue(t, now) {
			due += " (overdue)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID),
			t.BoardType,
			t.Status,
			t.Priority,
			formatPoints(t.StoryPoints),
			due,
			formatTags(t.Tags),
			t.Title,
		)
	}
}

// printTaskDetails prints every field of a task.
func printTaskDetails(w io.Writer, task *domain.Task, sp *domain.Sprint, overdue bool) {
	_, _ = fmt.Fprintf(w, "# %s\n\n", task.Title)
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	_, _ = fmt.Fprintf(w, "ID: %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Board: %s\n", task.BoardType)
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority)
	if task.IsScrum() {
		_, _ = fmt.Fprintf(w, "Story points: %s\n", formatPoints(task.StoryPoints))
		switch {
		case sp != nil:
			_, _ = fmt.Fprintf(w, "Sprint: %s (%s)\n", sp.Name, sp.Status)
		case task.SprintRef() != "":
			_, _ = fmt.Fprintf(w, "Sprint: %s (missing)\n", task.SprintRef())
		default:
			_, _ = fmt.Fprintln(w, "Sprint: backlog")
		}
	}
	if task.EstimatedTime != "" {
		_, _ = fmt.Fprintf(w, "Estimated: %sh\n", task.EstimatedTime)
	}
	due := formatDate(task.DueDate)
	if overdue {
		due += " (overdue)"
	}
	_, _ = fmt.Fprintf(w, "Due: %s\n", due)
	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.UpdatedAt != nil {
		_, _ = fmt.Fprintf(w, "Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))
	}
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}

	if len(task.AcceptanceCriteria) > 0 {
		_, _ = fmt.Fprintln(w, "\nAcceptance criteria:")
		printCriteria(w, task.AcceptanceCriteria)
	}
}

func printCriteria(w io.Writer, criteria []string) {
	for i, c := range criteria {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, c)
	}
}

// printProgress prints a one-line sprint progress summary.
func printProgress(w io.Writer, p view.Progress) {
	_, _ = fmt.Fprintf(w, "Progress: %d/%d tasks, %d/%d points (%.0f%%), day %d of %d\n",
		p.CompletedTasks, p.TotalTasks,
		p.CompletedPoints, p.TotalPoints, p.CompletionRate(),
		p.ElapsedDays, p.TotalDays)
}
