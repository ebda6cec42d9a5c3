package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskflow in the current directory",
		Long: `Initialize taskflow in the current directory.

This command creates the .taskflow/ directory with:
- store.json: empty task store (json backend)
- logs/: directory for log files

With the redis backend the namespace is initialized on the configured server
instead of store.json. Set TASKFLOW_DIR to use another data directory.

Error conditions:
- Already initialized: "taskflow already initialized"`,
		Annotations: skipLoad,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			c.Logger.Info("", "store", "initialized "+out.DataDir)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized taskflow in %s\n", out.DataDir)
			return nil
		},
	}
}
