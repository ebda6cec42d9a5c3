package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/usecase"
)

// newAICommand creates the ai command and its subcommands.
func newAICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Ask the AI advisor",
		Long: `Ask the AI advisor for suggestions.

Requires OPENROUTER_API_KEY or GROQ_API_KEY. The provider and model can be
set in the [ai] section of config.toml. Suggestions are only printed unless
--apply is given.`,
	}

	cmd.AddCommand(
		newAIPriorityCommand(c),
		newAIPrioritizeAllCommand(c),
		newAIPointsCommand(c),
		newAIClusterCommand(c),
		newAISummaryCommand(c),
		newAIPredictCommand(c),
	)
	return cmd
}

func newAIPriorityCommand(c *app.Container) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "priority <id>",
		Short: "Suggest a task's priority and estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.SuggestPriorityUseCase().Execute(cmd.Context(), usecase.SuggestPriorityInput{TaskID: args[0], Apply: apply})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			a := out.Analysis
			_, _ = fmt.Fprintf(w, "%s: %s priority, about %gh\n", out.Task.Title, a.Priority, a.EstimatedTime)
			if a.Reasoning != "" {
				_, _ = fmt.Fprintf(w, "%s\n", a.Reasoning)
			}
			printApplied(w, out.Applied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the suggestion to the task")
	return cmd
}

func newAIPrioritizeAllCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Board string
		Apply bool
	}

	cmd := &cobra.Command{
		Use:   "prioritize-all",
		Short: "Suggest priorities for every unfinished task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.PrioritizeAllUseCase().Execute(cmd.Context(), usecase.PrioritizeAllInput{
				Board: domain.BoardType(opts.Board),
				Apply: opts.Apply,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Suggestions) == 0 {
				_, _ = fmt.Fprintln(w, "No unfinished tasks.")
				return nil
			}
			tw := newTable(w)
			_, _ = fmt.Fprintln(tw, "ID\tCURRENT\tSUGGESTED\tHOURS\tTITLE")
			for _, s := range out.Suggestions {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n",
					shortID(s.Task.ID), s.Task.Priority, s.Analysis.Priority, s.Analysis.EstimatedTime, s.Task.Title)
			}
			_ = tw.Flush()
			if opts.Apply {
				_, _ = fmt.Fprintf(w, "Applied %d suggestion(s)\n", out.Applied)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Board, "board", "b", "", "Only tasks on this board")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Write every suggestion to its task")
	return cmd
}

func newAIPointsCommand(c *app.Container) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "points <id>",
		Short: "Estimate a task's story points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.EstimatePointsUseCase().Execute(cmd.Context(), usecase.EstimatePointsInput{TaskID: args[0], Apply: apply})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s: %d story points\n", out.Task.Title, out.Points)
			printApplied(w, out.Applied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the estimate to the task")
	return cmd
}

func newAIClusterCommand(c *app.Container) *cobra.Command {
	var includeDone bool

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group tasks into categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ClusterTasksUseCase().Execute(cmd.Context(), usecase.ClusterTasksInput{IncludeDone: includeDone})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, cl := range out.Clusters {
				_, _ = fmt.Fprintf(w, "## %s (%d)\n", cl.Name, len(cl.Tasks))
				for _, t := range cl.Tasks {
					_, _ = fmt.Fprintf(w, "  %s  %s\n", shortID(t.ID), t.Title)
				}
			}
			if out.Insights != "" {
				_, _ = fmt.Fprintf(w, "\n%s\n", out.Insights)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDone, "all", false, "Include completed tasks")
	return cmd
}

func newAISummaryCommand(c *app.Container) *cobra.Command {
	var sprintID string

	cmd := &cobra.Command{
		Use:       "summary [daily|weekly|sprint]",
		Short:     "Write a progress summary",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(usecase.SummaryDaily), string(usecase.SummaryWeekly), string(usecase.SummarySprint)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := usecase.SummaryDaily
			if len(args) == 1 {
				kind = usecase.SummaryKind(args[0])
			}

			out, err := c.SummarizeUseCase().Execute(cmd.Context(), usecase.SummarizeInput{Kind: kind, SprintID: sprintID})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&sprintID, "sprint", "", "Sprint for the sprint summary (default: active sprint)")
	return cmd
}

func newAIPredictCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "predict [sprint-id]",
		Short: "Predict whether a sprint will finish on time",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.PredictSprintInput{}
			if len(args) == 1 {
				input.SprintID = args[0]
			}

			out, err := c.PredictSprintUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Sprint: %s\n", out.Sprint.Name)
			printProgress(w, out.Progress)
			_, _ = fmt.Fprintf(w, "Likelihood: %.0f%% (risk: %s)\n", out.Prediction.Likelihood, out.Prediction.Risk)
			if out.Prediction.Recommendation != "" {
				_, _ = fmt.Fprintf(w, "Recommendation: %s\n", out.Prediction.Recommendation)
			}
			return nil
		},
	}
}

func printApplied(w io.Writer, applied bool) {
	if applied {
		_, _ = fmt.Fprintln(w, "Applied.")
	}
}
