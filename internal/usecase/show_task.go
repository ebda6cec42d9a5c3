package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
	"github.com/runoshun/taskflow/internal/view"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID or unique prefix
}

// ShowTaskOutput contains the task and the sprint it belongs to.
type ShowTaskOutput struct {
	Task    *domain.Task
	Sprint  *domain.Sprint // nil for kanban and backlog tasks
	Overdue bool
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	clock   domain.Clock
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock) *ShowTask {
	return &ShowTask{tasks: tasks, sprints: sprints, clock: clock}
}

// Execute retrieves the task.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	out := &ShowTaskOutput{Task: task, Overdue: view.Overdue(task, uc.clock.Now())}
	if task.IsScrum() && task.SprintRef() != "" {
		out.Sprint = uc.sprints.Get(task.SprintRef())
	}
	return out, nil
}
