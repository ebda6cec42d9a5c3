// Package cli provides the command-line interface for taskflow.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupSprint   = "sprint"
	groupInsights = "insights"
)

// annotationSkipLoad marks commands that run without reading tasks and
// sprints (they may run before init, or work on the raw store).
const annotationSkipLoad = "taskflow/skip-load"

var skipLoad = map[string]string{annotationSkipLoad: "true"}

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for taskflow.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Kanban and scrum task board with AI assistance",
		Long: `taskflow is a terminal task manager with a kanban board, a scrum board
with sprints and a backlog, dashboard analytics and optional AI advice
(priority suggestions, story point estimates, summaries and sprint
predictions) through OpenRouter or Groq.

Run without arguments to open the interactive board.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			if skipsLoad(cmd) {
				return nil
			}
			return c.Load()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSprint, Title: "Sprint Management:"},
		&cobra.Group{ID: groupInsights, Title: "Boards and Insights:"},
	)

	grouped := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	grouped(groupSetup,
		newInitCommand(c),
		newConfigCommand(c),
		newMigrateCommand(c),
		newLogsCommand(c),
		newExportCommand(c),
		newImportCommand(c),
	)
	grouped(groupTask,
		newNewCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newMoveCommand(c),
		newRmCommand(c),
		newCriteriaCommand(c),
	)
	grouped(groupSprint,
		newSprintCommand(c),
	)
	grouped(groupInsights,
		newBoardCommand(c),
		newBacklogCommand(c),
		newStatsCommand(c),
		newAICommand(c),
		newTUICommand(c),
	)

	return root
}

// skipsLoad reports whether cmd or one of its parents is annotated to run
// without loading state.
func skipsLoad(cmd *cobra.Command) bool {
	for cur := cmd; cur != nil; cur = cur.Parent() {
		if cur.Annotations[annotationSkipLoad] == "true" {
			return true
		}
		if cur.Name() == "help" || cur.Name() == "completion" {
			return true
		}
	}
	return false
}
