package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID or unique prefix
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks *state.TaskStore, sprints *state.SprintStore) *DeleteTask {
	return &DeleteTask{
		tasks:   tasks,
		sprints: sprints,
	}
}

// Execute deletes a task and drops it from every sprint's task list.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.tasks.DeleteTask(task.ID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if err := uc.sprints.RemoveTaskEverywhere(task.ID); err != nil {
		return nil, fmt.Errorf("remove task from sprints: %w", err)
	}

	return &DeleteTaskOutput{Task: task}, nil
}
