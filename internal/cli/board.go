package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
	"github.com/runoshun/taskflow/internal/view"
)

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Board  string
		Sprint string
	}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print a board by column",
		Long: `Print the kanban board, or the scrum board of a sprint.

The scrum board shows the active sprint unless --sprint is given.

Examples:
  taskflow board
  taskflow board --board scrum
  taskflow board --board scrum --sprint 7c1e`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowBoardUseCase().Execute(cmd.Context(), usecase.ShowBoardInput{
				Board:    domain.BoardType(opts.Board),
				SprintID: opts.Sprint,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Sprint != nil {
				_, _ = fmt.Fprintf(w, "Sprint: %s (%s - %s)\n", out.Sprint.Name,
					out.Sprint.StartDate.Format(dateLayout), out.Sprint.EndDate.Format(dateLayout))
				if out.Sprint.Goal != "" {
					_, _ = fmt.Fprintf(w, "Goal: %s\n", out.Sprint.Goal)
				}
				printProgress(w, out.Progress)
				_, _ = fmt.Fprintln(w)
			}
			printBoard(w, out.Board)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "Board (kanban or scrum, default from config)")
	cmd.Flags().StringVar(&opts.Sprint, "sprint", "", "Sprint for the scrum board (default: active sprint)")

	return cmd
}

func printBoard(w io.Writer, b view.Board) {
	for i, col := range b.Columns {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "## %s (%d)\n", col.Status.Display(), len(col.Tasks))
		for _, t := range col.Tasks {
			points := ""
			if t.StoryPoints > 0 {
				points = fmt.Sprintf(" [%d pts]", t.StoryPoints)
			}
			_, _ = fmt.Fprintf(w, "  %s  %-6s %s%s\n", shortID(t.ID), t.Priority, t.Title, points)
		}
	}
}

// newBacklogCommand creates the backlog command.
func newBacklogCommand(c *app.Container) *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:   "backlog",
		Short: "Print the scrum backlog",
		Long: `Print scrum tasks not planned into any sprint, with the open sprints
they can be planned into.

Examples:
  taskflow backlog
  taskflow backlog --sort dueDate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowBacklogUseCase().Execute(cmd.Context(), usecase.ShowBacklogInput{Sort: view.SortKey(sortKey)})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Backlog: %d task(s), %d point(s)\n\n", len(out.Tasks), out.Points)
			if len(out.Tasks) > 0 {
				printTaskList(w, out.Tasks, c.Clock.Now())
			}

			if out.Active != nil || len(out.Planned) > 0 {
				_, _ = fmt.Fprintln(w, "\nOpen sprints:")
				if out.Active != nil {
					_, _ = fmt.Fprintf(w, "  %s  %s (active)\n", shortID(out.Active.ID), out.Active.Name)
				}
				for _, sp := range out.Planned {
					_, _ = fmt.Fprintf(w, "  %s  %s (planned)\n", shortID(sp.ID), sp.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by priority (default), createdAt or dueDate")

	return cmd
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	var trendDays int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard analytics",
		Long: `Print task counts by status and priority, estimated hours, overdue tasks,
the completion trend, sprint velocity and active sprint progress.

Examples:
  taskflow stats
  taskflow stats --trend 14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowStatsUseCase().Execute(cmd.Context(), usecase.ShowStatsInput{TrendDays: trendDays})
			if err != nil {
				return err
			}

			printStats(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&trendDays, "trend", 0, "Days in the completion trend (default from config)")

	return cmd
}

func printStats(w io.Writer, out *usecase.ShowStatsOutput) {
	a := out.Analytics
	_, _ = fmt.Fprintf(w, "Tasks: %d total, %d done (%.0f%%), %d overdue\n", a.Total, a.Completed, a.CompletionRate(), a.Overdue)

	_, _ = fmt.Fprintln(w, "\nBy status:")
	for _, s := range domain.AllStatuses() {
		_, _ = fmt.Fprintf(w, "  %-12s %d\n", s.Display(), a.ByStatus[s])
	}

	_, _ = fmt.Fprintln(w, "\nBy priority:")
	for _, p := range domain.AllPriorities() {
		_, _ = fmt.Fprintf(w, "  %-12s %d  (%.1fh estimated)\n", p, a.ByPriority[p], a.HoursByPriority[p])
	}

	if len(a.Trend) > 0 {
		_, _ = fmt.Fprintln(w, "\nCompleted per day:")
		for _, d := range a.Trend {
			_, _ = fmt.Fprintf(w, "  %s %s %d\n", d.Date, strings.Repeat("#", d.Count), d.Count)
		}
	}

	if len(a.Velocity) > 0 {
		_, _ = fmt.Fprintf(w, "\nVelocity (average %.1f):\n", a.AverageVelocity())
		for _, v := range a.Velocity {
			_, _ = fmt.Fprintf(w, "  %-20s %d/%s\n", v.Name, v.Velocity, formatPoints(v.Capacity))
		}
	}

	if len(a.BySprint) > 0 {
		_, _ = fmt.Fprintln(w, "\nBy sprint:")
		for _, s := range a.BySprint {
			_, _ = fmt.Fprintf(w, "  %-20s %d task(s), %d/%d points\n", s.Name, s.Tasks, s.CompletedPoints, s.StoryPoints)
		}
	}

	if out.Active != nil {
		_, _ = fmt.Fprintf(w, "\nActive sprint: %s\n", out.Active.Name)
		printProgress(w, out.Progress)
	}
}
