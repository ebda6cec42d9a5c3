package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// MoveDirection selects a relative move between board columns.
type MoveDirection int

const (
	MoveTo   MoveDirection = iota // Move to Status
	MoveNext                      // Move one column right
	MovePrev                      // Move one column left
)

// MoveTaskInput contains the parameters for changing a task's status.
type MoveTaskInput struct {
	TaskID    string        // Task ID or unique prefix (required)
	Status    domain.Status // Target status when Direction is MoveTo
	Direction MoveDirection
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task *domain.Task
	From domain.Status
}

// MoveTask is the use case for moving a task between board columns.
type MoveTask struct {
	tasks *state.TaskStore
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(tasks *state.TaskStore) *MoveTask {
	return &MoveTask{tasks: tasks}
}

// Execute changes the status of a task. The target status must be shown on
// the task's board.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	target := in.Status
	switch in.Direction {
	case MoveNext:
		target = task.Status.Next(task.BoardType)
	case MovePrev:
		target = task.Status.Prev(task.BoardType)
	case MoveTo:
	}

	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, target)
	}
	if !target.AllowedOn(task.BoardType) {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrStatusNotOnBoard, target, task.BoardType)
	}

	if target != task.Status {
		if _, err := uc.tasks.UpdateTaskStatus(task.ID, target); err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
	}
	return &MoveTaskOutput{Task: uc.tasks.Get(task.ID), From: task.Status}, nil
}
