package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/view"
)

// ListSprintsInput contains the parameters for listing sprints.
type ListSprintsInput struct {
	History bool // List completed sprints instead of open ones
}

// SprintSummary is a sprint with its progress.
type SprintSummary struct {
	Sprint   *domain.Sprint
	Progress view.Progress
	Active   bool
}

// ListSprintsOutput contains the result of listing sprints.
type ListSprintsOutput struct {
	Sprints []SprintSummary
}

// ListSprints is the use case for listing sprints.
type ListSprints struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	clock   domain.Clock
}

// NewListSprints creates a new ListSprints use case.
func NewListSprints(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock) *ListSprints {
	return &ListSprints{tasks: tasks, sprints: sprints, clock: clock}
}

// Execute lists open sprints (or history) in creation order with progress.
func (uc *ListSprints) Execute(_ context.Context, in ListSprintsInput) (*ListSprintsOutput, error) {
	list := uc.sprints.List()
	if in.History {
		list = uc.sprints.History()
	}

	tasks := uc.tasks.List()
	now := uc.clock.Now()
	active := uc.sprints.ActiveSprintID()

	out := &ListSprintsOutput{Sprints: make([]SprintSummary, 0, len(list))}
	for _, sp := range list {
		out.Sprints = append(out.Sprints, SprintSummary{
			Sprint:   sp,
			Progress: view.SprintProgress(tasks, sp, now),
			Active:   sp.ID == active,
		})
	}
	return out, nil
}
