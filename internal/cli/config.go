package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Long:        `Manage taskflow configuration files and settings.`,
		Annotations: skipLoad,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files exist and the final merged configuration.
The AI API key is never printed; only whether one was found.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			printConfigSource(w, out.Info.GlobalPath, out.Info.GlobalExists)
			printConfigSource(w, out.Info.ProjectPath, out.Info.ProjectExists)
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			if err := formatEffectiveConfig(w, out.Effective); err != nil {
				return err
			}

			if len(out.Warnings) > 0 {
				_, _ = fmt.Fprintln(w, "\n[Warnings]")
				for _, warning := range out.Warnings {
					_, _ = fmt.Fprintf(w, "- %s\n", warning)
				}
			}
			return nil
		},
	}
}

func printConfigSource(w io.Writer, path string, exists bool) {
	if exists {
		_, _ = fmt.Fprintf(w, "- %s\n", path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", path)
	}
}

// effectiveConfig is the printable form of domain.Config. Durations are
// rendered as strings so the output can be pasted back into a config file.
type effectiveConfig struct {
	Storage   domain.StorageConfig   `toml:"storage"`
	AI        effectiveAI            `toml:"ai"`
	Board     domain.BoardConfig     `toml:"board"`
	Log       domain.LogConfig       `toml:"log"`
	Analytics domain.AnalyticsConfig `toml:"analytics"`
}

type effectiveAI struct {
	Provider  string `toml:"provider,omitempty"`
	Model     string `toml:"model,omitempty"`
	BaseURL   string `toml:"base_url,omitempty"`
	Timeout   string `toml:"timeout,omitempty"`
	APIKey    string `toml:"api_key"`
	MaxTokens int    `toml:"max_tokens,omitempty"`
}

// formatEffectiveConfig formats the effective config in TOML format.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	key := "(not set)"
	if cfg.AI.APIKey != "" {
		key = "(set)"
	}
	out := effectiveConfig{
		Storage: cfg.Storage,
		AI: effectiveAI{
			Provider:  cfg.AI.Provider,
			Model:     cfg.AI.Model,
			BaseURL:   cfg.AI.BaseURL,
			Timeout:   cfg.AI.Timeout.String(),
			APIKey:    key,
			MaxTokens: cfg.AI.MaxTokens,
		},
		Board:     cfg.Board,
		Log:       cfg.Log,
		Analytics: cfg.Analytics,
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file template.

By default, creates the project configuration file at .taskflow/config.toml.
With --global, creates the global configuration file at ~/.config/taskflow/config.toml.

Error conditions:
- Target file already exists: error`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{Global: global})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
