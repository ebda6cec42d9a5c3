package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields will be updated.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title         *string           // New title
	Description   *string           // New description
	Priority      *domain.Priority  // New priority
	BoardType     *domain.BoardType // Move to another board
	DueDate       *time.Time        // New due date
	Tags          *[]string         // Replace tags
	StoryPoints   *int              // New story points
	EstimatedTime *string           // New estimated hours
	TaskID        string            // Task ID or unique prefix (required)
	ClearDueDate  bool              // Remove the due date
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks *state.TaskStore, sprints *state.SprintStore) *EditTask {
	return &EditTask{
		tasks:   tasks,
		sprints: sprints,
	}
}

// Execute edits a task with the given input.
// Moving a task to the kanban board takes it out of its sprint, and a status
// the new board does not show is reset to todo.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	patch := domain.TaskPatch{
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		BoardType:     in.BoardType,
		DueDate:       in.DueDate,
		Tags:          in.Tags,
		StoryPoints:   in.StoryPoints,
		EstimatedTime: in.EstimatedTime,
		ClearDueDate:  in.ClearDueDate,
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		patch.Title = &title
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *in.Priority)
	}
	if in.BoardType != nil && !in.BoardType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBoardType, *in.BoardType)
	}
	if in.StoryPoints != nil && !domain.IsFibonacciPoint(*in.StoryPoints) {
		return nil, domain.ErrInvalidStoryPoints
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	patch.ID = task.ID

	leavingScrum := in.BoardType != nil && *in.BoardType != domain.BoardScrum && task.IsScrum()
	if in.BoardType != nil && !task.Status.AllowedOn(*in.BoardType) {
		todo := domain.StatusTodo
		patch.Status = &todo
	}

	if _, err := uc.tasks.UpdateTask(patch); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if leavingScrum && task.SprintRef() != "" {
		if err := unplan(uc.tasks, uc.sprints, task); err != nil {
			return nil, err
		}
	}

	return &EditTaskOutput{Task: uc.tasks.Get(task.ID)}, nil
}
