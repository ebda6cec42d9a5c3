package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// DeleteSprintInput contains the parameters for deleting a sprint.
type DeleteSprintInput struct {
	SprintID string // Sprint ID or unique prefix
}

// DeleteSprintOutput contains the result of deleting a sprint.
type DeleteSprintOutput struct {
	Sprint   *domain.Sprint
	Returned []string // Task IDs moved back to the backlog
}

// DeleteSprint is the use case for discarding a planned or active sprint.
type DeleteSprint struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewDeleteSprint creates a new DeleteSprint use case.
func NewDeleteSprint(tasks *state.TaskStore, sprints *state.SprintStore) *DeleteSprint {
	return &DeleteSprint{tasks: tasks, sprints: sprints}
}

// Execute deletes the sprint and returns its tasks to the backlog.
// Completed sprints cannot be deleted.
func (uc *DeleteSprint) Execute(_ context.Context, in DeleteSprintInput) (*DeleteSprintOutput, error) {
	sp, err := openSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.sprints.DeleteSprint(sp.ID); err != nil {
		return nil, fmt.Errorf("delete sprint: %w", err)
	}
	returned, err := uc.tasks.ClearSprint(sp.ID)
	if err != nil {
		return nil, fmt.Errorf("return tasks to backlog: %w", err)
	}
	return &DeleteSprintOutput{Sprint: sp, Returned: returned}, nil
}
