package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks and sprints as YAML",
		Long: `Write all tasks, sprints, sprint history and the active sprint reference
as a YAML snapshot, to stdout or to a file.

Examples:
  taskflow export > backup.yaml
  taskflow export -o backup.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) //nolint:gosec // Path given by the user
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			out, err := c.ExportStateUseCase().Execute(cmd.Context(), usecase.ExportStateInput{W: w})
			if err != nil {
				return err
			}

			if output != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d task(s) and %d sprint(s) to %s\n", out.Tasks, out.Sprints, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks and sprints with a YAML snapshot",
		Long: `Replace all tasks and sprints with a snapshot written by 'taskflow export'.

The snapshot is validated first; nothing is changed if it is invalid.
Use "-" to read from stdin.

Examples:
  taskflow import backup.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			out, err := c.ImportStateUseCase().Execute(cmd.Context(), usecase.ImportStateInput{R: r})
			if err != nil {
				return err
			}

			c.Logger.Info("", "store", fmt.Sprintf("imported %d task(s) and %d sprint(s)", out.Tasks, out.Sprints))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s) and %d sprint(s)\n", out.Tasks, out.Sprints)
			return nil
		},
	}
}
