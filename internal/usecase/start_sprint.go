package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// StartSprintInput contains the parameters for starting a sprint.
type StartSprintInput struct {
	SprintID string // Sprint ID or unique prefix
}

// StartSprintOutput contains the result of starting a sprint.
type StartSprintOutput struct {
	Sprint  *domain.Sprint
	Demoted string // ID of the previously active sprint, now planned
}

// StartSprint is the use case for activating a planned sprint.
type StartSprint struct {
	sprints *state.SprintStore
}

// NewStartSprint creates a new StartSprint use case.
func NewStartSprint(sprints *state.SprintStore) *StartSprint {
	return &StartSprint{sprints: sprints}
}

// Execute starts the sprint. Any sprint active before goes back to planned.
func (uc *StartSprint) Execute(_ context.Context, in StartSprintInput) (*StartSprintOutput, error) {
	sp, err := shared.GetSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}

	prev := uc.sprints.ActiveSprintID()
	if err := uc.sprints.StartSprint(sp.ID); err != nil {
		return nil, err
	}

	out := &StartSprintOutput{Sprint: uc.sprints.Get(sp.ID)}
	if prev != "" && prev != sp.ID {
		out.Demoted = prev
	}
	return out, nil
}
