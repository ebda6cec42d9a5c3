package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newSprintCommand creates the sprint command and its subcommands.
func newSprintCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
		Long: `Manage scrum sprints.

A sprint moves one way: planned -> active -> completed. At most one sprint
is active; starting another demotes the current one to planned.`,
	}

	cmd.AddCommand(
		newSprintNewCommand(c),
		newSprintListCommand(c),
		newSprintHistoryCommand(c),
		newSprintEditCommand(c),
		newSprintStartCommand(c),
		newSprintCompleteCommand(c),
		newSprintRmCommand(c),
		newSprintPlanCommand(c),
		newSprintUnplanCommand(c),
	)
	return cmd
}

func newSprintNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Goal     string
		Start    string
		End      string
		Capacity int
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a planned sprint",
		Long: `Create a planned sprint.

The sprint starts today and lasts two weeks unless --start / --end are given.
--capacity sets the story point budget (0 = unlimited).

Examples:
  taskflow sprint new --name "Sprint 12" --goal "Ship password reset" --capacity 20
  taskflow sprint new --name "Hardening" --start 2025-04-01 --end 2025-04-07`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.CreateSprintInput{
				Name:     opts.Name,
				Goal:     opts.Goal,
				Capacity: opts.Capacity,
			}
			var err error
			if opts.Start != "" {
				if input.StartDate, err = parseDate(opts.Start); err != nil {
					return err
				}
			}
			if opts.End != "" {
				if input.EndDate, err = parseDate(opts.End); err != nil {
					return err
				}
			}

			out, err := c.CreateSprintUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			sp := out.Sprint
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created sprint %s: %s (%s - %s)\n",
				shortID(sp.ID), sp.Name, sp.StartDate.Format(dateLayout), sp.EndDate.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Sprint name (required)")
	cmd.Flags().StringVar(&opts.Goal, "goal", "", "Sprint goal")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&opts.End, "end", "", "End date (YYYY-MM-DD, default start + 14 days)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "Story point budget (0 = unlimited)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSprintListCommand(c *app.Container) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sprints",
		Long: `List open sprints with their progress, or completed sprints with --history.

Examples:
  taskflow sprint list
  taskflow sprint list --history`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSprintList(cmd, c, history)
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "List completed sprints")

	return cmd
}

func newSprintHistoryCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed sprints",
		Long:  `List completed sprints with their velocity. Same as "sprint list --history".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSprintList(cmd, c, true)
		},
	}
}

func runSprintList(cmd *cobra.Command, c *app.Container, history bool) error {
	out, err := c.ListSprintsUseCase().Execute(cmd.Context(), usecase.ListSprintsInput{History: history})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(out.Sprints) == 0 {
		_, _ = fmt.Fprintln(w, "No sprints.")
		return nil
	}
	printSprintList(w, out.Sprints)
	return nil
}

func printSprintList(w io.Writer, sprints []usecase.SprintSummary) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tDATES\tTASKS\tPOINTS\tCAPACITY\tVELOCITY\tNAME")
	for _, s := range sprints {
		sp, p := s.Sprint, s.Progress
		status := string(sp.Status)
		if s.Active {
			status += " *"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s - %s\t%d/%d\t%d/%d\t%s\t%s\t%s\n",
			shortID(sp.ID),
			status,
			sp.StartDate.Format(dateLayout), sp.EndDate.Format(dateLayout),
			p.CompletedTasks, p.TotalTasks,
			p.CompletedPoints, p.TotalPoints,
			formatPoints(sp.Capacity),
			formatPoints(sp.Velocity),
			sp.Name,
		)
	}
}

func newSprintEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Goal     string
		Start    string
		End      string
		Capacity int
		Velocity int
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit sprint fields",
		Long: `Edit sprint fields. Only the given flags are changed.

Examples:
  taskflow sprint edit 7c1e --goal "Ship reset flow" --capacity 24
  taskflow sprint edit 7c1e --velocity 18`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			input := usecase.EditSprintInput{SprintID: args[0]}
			if flags.Changed("name") {
				input.Name = &opts.Name
			}
			if flags.Changed("goal") {
				input.Goal = &opts.Goal
			}
			if flags.Changed("capacity") {
				input.Capacity = &opts.Capacity
			}
			if flags.Changed("velocity") {
				input.Velocity = &opts.Velocity
			}
			if flags.Changed("start") {
				start, err := parseDate(opts.Start)
				if err != nil {
					return err
				}
				input.StartDate = &start
			}
			if flags.Changed("end") {
				end, err := parseDate(opts.End)
				if err != nil {
					return err
				}
				input.EndDate = &end
			}

			out, err := c.EditSprintUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated sprint %s: %s\n", shortID(out.Sprint.ID), out.Sprint.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "New name")
	cmd.Flags().StringVar(&opts.Goal, "goal", "", "New goal")
	cmd.Flags().StringVar(&opts.Start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.End, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "New story point budget")
	cmd.Flags().IntVar(&opts.Velocity, "velocity", 0, "Override the recorded velocity")

	return cmd
}

func newSprintStartCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a planned sprint",
		Long: `Start a planned sprint. A sprint that is already active is demoted to planned.

Examples:
  taskflow sprint start 7c1e`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.StartSprintUseCase().Execute(cmd.Context(), usecase.StartSprintInput{SprintID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Demoted != "" {
				_, _ = fmt.Fprintf(w, "Sprint %s returned to planned\n", shortID(out.Demoted))
			}
			_, _ = fmt.Fprintf(w, "Started sprint %s: %s\n", shortID(out.Sprint.ID), out.Sprint.Name)
			return nil
		},
	}
}

func newSprintCompleteCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Retro          string
		Velocity       int
		KeepUnfinished bool
	}

	cmd := &cobra.Command{
		Use:   "complete [id]",
		Short: "Complete the active sprint",
		Long: `Complete a sprint (the active one unless an ID is given) and move it to history.

The velocity is the story points of its done tasks unless --velocity is given.
Unfinished tasks go back to the backlog unless --keep-unfinished is set.

Examples:
  taskflow sprint complete --retro "Estimates were too optimistic"
  taskflow sprint complete 7c1e --velocity 18`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.CompleteSprintInput{
				Retrospective:  opts.Retro,
				KeepUnfinished: opts.KeepUnfinished,
			}
			if len(args) == 1 {
				input.SprintID = args[0]
			}
			if cmd.Flags().Changed("velocity") {
				input.Velocity = &opts.Velocity
			}

			out, err := c.CompleteSprintUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Completed sprint %s: %s\n", shortID(out.Sprint.ID), out.Sprint.Name)
			_, _ = fmt.Fprintf(w, "Velocity: %d (completed points: %d)\n", out.Sprint.Velocity, out.CompletedPoints)
			if len(out.Returned) > 0 {
				_, _ = fmt.Fprintf(w, "Returned to backlog: %s\n", joinShortIDs(out.Returned))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Retro, "retro", "", "Retrospective notes")
	cmd.Flags().IntVar(&opts.Velocity, "velocity", 0, "Record this velocity instead of completed points")
	cmd.Flags().BoolVar(&opts.KeepUnfinished, "keep-unfinished", false, "Leave unfinished tasks on the completed sprint")

	return cmd
}

func newSprintRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an open sprint",
		Long: `Delete a planned or active sprint. Its tasks return to the backlog.
Completed sprints are kept in history and cannot be deleted.

Examples:
  taskflow sprint rm 7c1e`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteSprintUseCase().Execute(cmd.Context(), usecase.DeleteSprintInput{SprintID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Deleted sprint %s: %s\n", shortID(out.Sprint.ID), out.Sprint.Name)
			if len(out.Returned) > 0 {
				_, _ = fmt.Fprintf(w, "Returned to backlog: %s\n", joinShortIDs(out.Returned))
			}
			return nil
		},
	}
}

func newSprintPlanCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <task-id> <sprint-id>",
		Short: "Add a scrum task to a sprint",
		Long: `Add a scrum task to an open sprint, removing it from any other sprint.

Planning past the sprint capacity is allowed and reported as a warning.

Examples:
  taskflow sprint plan 3f2a 7c1e`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.PlanTaskUseCase().Execute(cmd.Context(), usecase.PlanTaskInput{TaskID: args[0], SprintID: args[1]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Planned task %s into sprint %s (%d points planned)\n",
				shortID(out.Task.ID), out.Sprint.Name, out.PlannedPoints)
			if out.OverCapacity {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: sprint %s is over capacity (%d/%d points)\n",
					out.Sprint.Name, out.PlannedPoints, out.Sprint.Capacity)
			}
			return nil
		},
	}
}

func newSprintUnplanCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unplan <task-id>",
		Short: "Return a task to the backlog",
		Long: `Remove a task from its sprint and return it to the backlog.

Examples:
  taskflow sprint unplan 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UnplanTaskUseCase().Execute(cmd.Context(), usecase.UnplanTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if out.SprintID == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already in the backlog\n", shortID(out.Task.ID))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Returned task %s to the backlog\n", shortID(out.Task.ID))
			return nil
		},
	}
}

func joinShortIDs(ids []string) string {
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = shortID(id)
	}
	return strings.Join(short, ", ")
}
