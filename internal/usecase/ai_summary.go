package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/view"
)

// SummaryKind selects the summary to write.
type SummaryKind string

const (
	SummaryDaily  SummaryKind = "daily"
	SummaryWeekly SummaryKind = "weekly"
	SummarySprint SummaryKind = "sprint"
)

// SummarizeInput contains the parameters for a summary.
type SummarizeInput struct {
	Kind     SummaryKind
	SprintID string // Sprint for SummarySprint (empty = active sprint)
}

// SummarizeOutput contains the summary text.
type SummarizeOutput struct {
	Sprint  *domain.Sprint // Set for sprint summaries
	Summary string
}

// Summarize asks the advisor for a daily, weekly or sprint summary.
type Summarize struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	advisor *advisory.Advisor
}

// NewSummarize creates a new Summarize use case.
func NewSummarize(tasks *state.TaskStore, sprints *state.SprintStore, advisor *advisory.Advisor) *Summarize {
	return &Summarize{tasks: tasks, sprints: sprints, advisor: advisor}
}

// Execute writes the summary.
func (uc *Summarize) Execute(ctx context.Context, in SummarizeInput) (*SummarizeOutput, error) {
	tasks := uc.tasks.List()

	switch in.Kind {
	case SummaryDaily, "":
		s, err := uc.advisor.DailySummary(ctx, tasks)
		if err != nil {
			return nil, err
		}
		return &SummarizeOutput{Summary: s}, nil
	case SummaryWeekly:
		s, err := uc.advisor.WeeklySummary(ctx, tasks)
		if err != nil {
			return nil, err
		}
		return &SummarizeOutput{Summary: s}, nil
	case SummarySprint:
		sp, err := getOrActiveSprint(uc.sprints, in.SprintID)
		if err != nil {
			return nil, err
		}
		s, err := uc.advisor.SprintSummary(ctx, sp, tasks)
		if err != nil {
			return nil, err
		}
		return &SummarizeOutput{Sprint: sp, Summary: s}, nil
	default:
		return nil, fmt.Errorf("unknown summary kind %q (use daily, weekly or sprint)", in.Kind)
	}
}

// PredictSprintInput contains the parameters for a completion prediction.
type PredictSprintInput struct {
	SprintID string // Sprint ID or unique prefix (empty = active sprint)
}

// PredictSprintOutput contains the prediction and the progress it was based on.
type PredictSprintOutput struct {
	Sprint     *domain.Sprint
	Prediction *advisory.Prediction
	Progress   view.Progress
}

// PredictSprint asks the advisor whether a sprint will finish on time.
type PredictSprint struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	advisor *advisory.Advisor
	clock   domain.Clock
}

// NewPredictSprint creates a new PredictSprint use case.
func NewPredictSprint(tasks *state.TaskStore, sprints *state.SprintStore, advisor *advisory.Advisor, clock domain.Clock) *PredictSprint {
	return &PredictSprint{tasks: tasks, sprints: sprints, advisor: advisor, clock: clock}
}

// Execute requests the prediction.
func (uc *PredictSprint) Execute(ctx context.Context, in PredictSprintInput) (*PredictSprintOutput, error) {
	sp, err := getOrActiveSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}

	tasks := uc.tasks.List()
	prediction, err := uc.advisor.PredictSprintCompletion(ctx, sp, tasks)
	if err != nil {
		return nil, err
	}
	return &PredictSprintOutput{
		Sprint:     sp,
		Prediction: prediction,
		Progress:   view.SprintProgress(tasks, sp, uc.clock.Now()),
	}, nil
}
