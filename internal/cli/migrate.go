package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		To    string
		Force bool
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy stored data to another storage backend",
		Long: `Copy every stored key (tasks, sprints, sprint history, active sprint)
from the configured backend to another one.

The destination is initialized first. Keys whose destination value already
matches are skipped. A destination key holding different data aborts the
migration before anything is written, unless --force is given.

After migrating, set storage.backend in config.toml to switch over.

Examples:
  # Copy the JSON store into Redis (storage.redis_addr must be set)
  taskflow migrate --to redis

  # Copy Redis back into .taskflow/store.json, overwriting it
  taskflow migrate --to json --force`,
		Annotations: skipLoad,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := strings.ToLower(strings.TrimSpace(opts.To))
			from := c.AppConfig.Storage.Backend
			if from == "" {
				from = domain.DefaultStoreBackend
			}
			if to == from {
				return fmt.Errorf("destination backend %q is the configured backend", to)
			}

			dest, err := c.OpenBackend(to)
			if err != nil {
				return err
			}

			uc := c.MigrateStoreUseCase(dest)
			out, err := uc.Execute(cmd.Context(), usecase.MigrateStoreInput{Force: opts.Force})
			if err != nil {
				return err
			}

			c.Logger.Info("", "store", fmt.Sprintf("migrated %s -> %s: %d key(s)", from, to, len(out.Copied)))
			printMigrationSummary(cmd.OutOrStdout(), from, to, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "redis", "Destination backend (json or redis)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite destination keys holding different data")

	return cmd
}

func printMigrationSummary(w io.Writer, from, to string, out *usecase.MigrateStoreOutput) {
	_, _ = fmt.Fprintf(w, "Migrated %s -> %s\n", from, to)
	_, _ = fmt.Fprintf(w, "Copied: %d", len(out.Copied))
	if len(out.Copied) > 0 {
		_, _ = fmt.Fprintf(w, " (%s)", strings.Join(out.Copied, ", "))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Skipped: %d\n", len(out.Skipped))
}
