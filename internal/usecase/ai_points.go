package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// EstimatePointsInput contains the parameters for a story point estimate.
type EstimatePointsInput struct {
	TaskID string // Task ID or unique prefix
	Apply  bool   // Write the estimate to the task
}

// EstimatePointsOutput contains the estimate.
type EstimatePointsOutput struct {
	Task    *domain.Task
	Points  int
	Applied bool
}

// EstimatePoints asks the advisor for a Fibonacci story point estimate.
type EstimatePoints struct {
	tasks   *state.TaskStore
	advisor *advisory.Advisor
}

// NewEstimatePoints creates a new EstimatePoints use case.
func NewEstimatePoints(tasks *state.TaskStore, advisor *advisory.Advisor) *EstimatePoints {
	return &EstimatePoints{tasks: tasks, advisor: advisor}
}

// Execute requests the estimate and optionally applies it.
func (uc *EstimatePoints) Execute(ctx context.Context, in EstimatePointsInput) (*EstimatePointsOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	points, err := uc.advisor.EstimateStoryPoints(ctx, task.Title, task.Description)
	if err != nil {
		return nil, err
	}

	out := &EstimatePointsOutput{Task: task, Points: points}
	if !in.Apply {
		return out, nil
	}
	if _, err := uc.tasks.UpdateStoryPoints(task.ID, points); err != nil {
		return out, fmt.Errorf("apply estimate: %w", err)
	}
	out.Task = uc.tasks.Get(task.ID)
	out.Applied = true
	return out, nil
}
