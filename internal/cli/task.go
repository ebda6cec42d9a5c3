package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
	"github.com/runoshun/taskflow/internal/view"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Status      string
		Priority    string
		Board       string
		Due         string
		Estimate    string
		Tags        []string
		Criteria    []string
		Points      int
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task.

The task is created with status 'todo' and priority 'medium' unless given.
It lands on the board set by board.default in config.toml (kanban if unset).
Scrum tasks start in the backlog; plan them with 'taskflow sprint plan'.

Examples:
  # Create a kanban task
  taskflow new --title "Fix login redirect"

  # Create a scrum story with points and acceptance criteria
  taskflow new --title "Password reset" --board scrum --points 5 \
    --criteria "Email is sent" --criteria "Link expires after 1h"

  # Create an urgent task with a due date and tags
  taskflow new --title "Renew TLS cert" --priority high --due 2025-04-01 --tag ops`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.NewTaskInput{
				Title:         opts.Title,
				Description:   opts.Description,
				Status:        domain.Status(opts.Status),
				Priority:      domain.Priority(opts.Priority),
				BoardType:     domain.BoardType(opts.Board),
				EstimatedTime: opts.Estimate,
				Tags:          opts.Tags,
				Criteria:      opts.Criteria,
				StoryPoints:   opts.Points,
			}
			if opts.Due != "" {
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				input.DueDate = &due
			}

			uc := c.NewTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (todo, in-progress, review, done)")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "Board (kanban or scrum)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Estimate, "estimate", "", "Estimated hours")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Tags (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Criteria, "criteria", nil, "Acceptance criteria (can specify multiple)")
	cmd.Flags().IntVar(&opts.Points, "points", 0, "Story points (Fibonacci: 1, 2, 3, 5, 8, 13, 21)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status   string
		Priority string
		Board    string
		Tag      string
		Sort     string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display a list of tasks across both boards.

Filters combine with AND. Tasks are sorted newest first unless --sort is given.

Examples:
  taskflow list
  taskflow list --board scrum --status in-progress
  taskflow list --priority high --sort dueDate
  taskflow list --tag ops`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Filter: view.Filter{
					Status:   domain.Status(opts.Status),
					Priority: domain.Priority(opts.Priority),
					Board:    domain.BoardType(opts.Board),
					Tag:      opts.Tag,
				},
				Sort: view.SortKey(opts.Sort),
			})
			if err != nil {
				return err
			}

			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "Filter by board")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by createdAt, priority or dueDate")

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

The ID may be abbreviated to any unique prefix.

Examples:
  taskflow show 3f2a9c10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			printTaskDetails(cmd.OutOrStdout(), out.Task, out.Sprint, out.Overdue)
			return nil
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Board       string
		Due         string
		Estimate    string
		Tags        []string
		Points      int
		ClearDue    bool
		Editor      bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Long: `Edit task fields. Only the given flags are changed.

Moving a task to the kanban board removes it from its sprint; a status the
kanban board does not show (review, backlog) becomes todo.

With --editor, the description is opened in $EDITOR.

Examples:
  taskflow edit 3f2a --title "New title" --priority high
  taskflow edit 3f2a --board scrum --points 3
  taskflow edit 3f2a --clear-due
  taskflow edit 3f2a --editor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			input := usecase.EditTaskInput{TaskID: args[0], ClearDueDate: opts.ClearDue}
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Description = &opts.Description
			}
			if flags.Changed("priority") {
				p := domain.Priority(opts.Priority)
				input.Priority = &p
			}
			if flags.Changed("board") {
				b := domain.BoardType(opts.Board)
				input.BoardType = &b
			}
			if flags.Changed("estimate") {
				input.EstimatedTime = &opts.Estimate
			}
			if flags.Changed("tag") {
				input.Tags = &opts.Tags
			}
			if flags.Changed("points") {
				input.StoryPoints = &opts.Points
			}
			if flags.Changed("due") {
				if opts.ClearDue {
					return errors.New("--due and --clear-due cannot be used together")
				}
				due, err := parseDate(opts.Due)
				if err != nil {
					return err
				}
				input.DueDate = &due
			}
			if opts.Editor {
				if input.Description != nil {
					return errors.New("--body and --editor cannot be used together")
				}
				desc, err := editDescription(cmd.Context(), c, args[0])
				if err != nil {
					return err
				}
				input.Description = &desc
			}

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "Move to board (kanban or scrum)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVar(&opts.Estimate, "estimate", "", "New estimated hours")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Replace tags (can specify multiple)")
	cmd.Flags().IntVar(&opts.Points, "points", 0, "New story points")
	cmd.Flags().BoolVarP(&opts.Editor, "editor", "e", false, "Edit the description in $EDITOR")

	return cmd
}

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Next bool
		Prev bool
	}

	cmd := &cobra.Command{
		Use:     "move <id> [status]",
		Aliases: []string{"mv"},
		Short:   "Change a task's status",
		Long: `Change a task's status.

Give the target status, or use --next / --prev to move one column along the
task's board. Kanban columns: todo, in-progress, done. Scrum columns add
review between in-progress and done.

Moving to done records the completion time; moving out of done clears it.

Examples:
  taskflow move 3f2a in-progress
  taskflow move 3f2a --next`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.MoveTaskInput{TaskID: args[0]}
			switch {
			case opts.Next && opts.Prev:
				return errors.New("--next and --prev cannot be used together")
			case opts.Next:
				input.Direction = usecase.MoveNext
			case opts.Prev:
				input.Direction = usecase.MovePrev
			case len(args) == 2:
				input.Direction = usecase.MoveTo
				input.Status = domain.Status(args[1])
			default:
				return errors.New("give a status or --next / --prev")
			}
			if len(args) == 2 && input.Direction != usecase.MoveTo {
				return errors.New("a status cannot be combined with --next / --prev")
			}

			uc := c.MoveTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s: %s -> %s\n", shortID(out.Task.ID), out.From, out.Task.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Next, "next", false, "Move one column right")
	cmd.Flags().BoolVar(&opts.Prev, "prev", false, "Move one column left")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task. It is also removed from any sprint task list.

Examples:
  taskflow rm 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}
}

// newCriteriaCommand creates the criteria command.
func newCriteriaCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Add    []string
		Remove []int
		Set    []string
		Clear  bool
	}

	cmd := &cobra.Command{
		Use:   "criteria <id>",
		Short: "Show or change acceptance criteria",
		Long: `Show or change a task's acceptance criteria.

Without flags, the criteria are listed with their positions. --remove takes
1-based positions as listed. --set replaces the whole list.

Examples:
  taskflow criteria 3f2a
  taskflow criteria 3f2a --add "Works offline"
  taskflow criteria 3f2a --remove 2
  taskflow criteria 3f2a --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.UpdateCriteriaInput{
				TaskID: args[0],
				Add:    opts.Add,
				Remove: opts.Remove,
			}
			switch {
			case opts.Clear && cmd.Flags().Changed("set"):
				return errors.New("--set and --clear cannot be used together")
			case opts.Clear:
				input.Set = &[]string{}
			case cmd.Flags().Changed("set"):
				input.Set = &opts.Set
			}

			uc := c.UpdateCriteriaUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Criteria) == 0 {
				_, _ = fmt.Fprintln(w, "No acceptance criteria.")
				return nil
			}
			printCriteria(w, out.Criteria)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Add, "add", nil, "Criterion to append (can specify multiple)")
	cmd.Flags().IntSliceVar(&opts.Remove, "remove", nil, "1-based positions to remove")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "Replace all criteria (can specify multiple)")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Remove all criteria")

	return cmd
}

// editDescription opens the current description of ref in the editor and
// returns the edited text.
func editDescription(ctx context.Context, c *app.Container, ref string) (string, error) {
	out, err := c.ShowTaskUseCase().Execute(ctx, usecase.ShowTaskInput{TaskID: ref})
	if err != nil {
		return "", err
	}
	edited, err := editText(out.Task.Description, fmt.Sprintf("taskflow-%s-*.md", shortID(out.Task.ID)))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(edited, "\n"), nil
}
