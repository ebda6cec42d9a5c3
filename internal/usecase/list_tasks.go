package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/view"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Filter view.Filter  // Field filters (zero = all tasks)
	Sort   view.SortKey // Sort order (empty = newest first)
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks *state.TaskStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks *state.TaskStore) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching the filter in the requested order.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	key := in.Sort
	if key == "" {
		key = view.SortCreatedAt
	}
	if !key.IsValid() {
		return nil, fmt.Errorf("unknown sort key %q (use createdAt, priority or dueDate)", key)
	}
	if in.Filter.Priority != "" && !in.Filter.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, in.Filter.Priority)
	}
	if in.Filter.Status != "" && !in.Filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, in.Filter.Status)
	}
	if in.Filter.Board != "" && !in.Filter.Board.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBoardType, in.Filter.Board)
	}

	return &ListTasksOutput{Tasks: view.FilterSort(uc.tasks.List(), in.Filter, key)}, nil
}
