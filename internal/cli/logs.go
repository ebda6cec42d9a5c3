package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Entity string
		Lines  int
	}

	cmd := &cobra.Command{
		Use:   "logs [id]",
		Short: "Show the application log",
		Long: `Show entries of .taskflow/logs/taskflow.log.

With an ID, only entries tagged with that task or sprint are shown.

Examples:
  taskflow logs
  taskflow logs -n 20
  taskflow logs 3f2a9c10`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: skipLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Entity = args[0]
			}

			uc := c.ShowLogsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowLogsInput{
				Entity: opts.Entity,
				Lines:  opts.Lines,
			})
			if err != nil {
				return err
			}

			if out.Content == "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No log entries in %s\n", out.LogPath)
				return nil
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 0, "Show only the last N lines")

	return cmd
}
