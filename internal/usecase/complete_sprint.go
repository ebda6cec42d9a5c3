package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/view"
)

// CompleteSprintInput contains the parameters for completing a sprint.
type CompleteSprintInput struct {
	Velocity       *int   // Explicit velocity (nil = completed story points)
	SprintID       string // Sprint ID or unique prefix (empty = active sprint)
	Retrospective  string // Retrospective notes (optional)
	KeepUnfinished bool   // Leave unfinished tasks referencing the completed sprint
}

// CompleteSprintOutput contains the result of completing a sprint.
type CompleteSprintOutput struct {
	Sprint          *domain.Sprint
	Returned        []string // Unfinished task IDs moved back to the backlog
	CompletedPoints int
}

// CompleteSprint is the use case for finishing the active sprint.
type CompleteSprint struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	clock   domain.Clock
}

// NewCompleteSprint creates a new CompleteSprint use case.
func NewCompleteSprint(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock) *CompleteSprint {
	return &CompleteSprint{tasks: tasks, sprints: sprints, clock: clock}
}

// Execute completes the sprint with velocity computed from its done tasks,
// moves it into history and returns unfinished tasks to the backlog.
func (uc *CompleteSprint) Execute(_ context.Context, in CompleteSprintInput) (*CompleteSprintOutput, error) {
	sp, err := getOrActiveSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}
	if in.Velocity != nil && *in.Velocity < 0 {
		return nil, fmt.Errorf("velocity must not be negative: %d", *in.Velocity)
	}

	tasks := uc.tasks.List()
	progress := view.SprintProgress(tasks, sp, uc.clock.Now())

	completed, err := uc.sprints.CompleteSprint(state.CompleteSprint{
		ID:                   sp.ID,
		Velocity:             in.Velocity,
		Retrospective:        in.Retrospective,
		CompletedStoryPoints: progress.CompletedPoints,
	})
	if err != nil {
		return nil, err
	}

	out := &CompleteSprintOutput{Sprint: completed, CompletedPoints: progress.CompletedPoints}
	if in.KeepUnfinished {
		return out, nil
	}
	for _, t := range tasks {
		if t.InSprint(sp.ID) && !t.IsDone() {
			if _, err := uc.tasks.RemoveFromSprint(t.ID); err != nil {
				return out, fmt.Errorf("return task to backlog: %w", err)
			}
			out.Returned = append(out.Returned, t.ID)
		}
	}
	return out, nil
}
