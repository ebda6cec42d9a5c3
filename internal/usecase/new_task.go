// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	DueDate       *time.Time       // Due date (optional)
	Title         string           // Task title (required)
	Description   string           // Task description (optional)
	Status        domain.Status    // Initial status (empty = todo)
	Priority      domain.Priority  // Priority (empty = medium)
	BoardType     domain.BoardType // Board (empty = configured default)
	EstimatedTime string           // Estimated hours (optional)
	Tags          []string         // Tags (optional)
	Criteria      []string         // Acceptance criteria (optional)
	StoryPoints   int              // Story points (0 = unestimated)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks        *state.TaskStore
	ids          domain.IDGenerator
	defaultBoard domain.BoardType
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks *state.TaskStore, ids domain.IDGenerator, defaultBoard domain.BoardType) *NewTask {
	if !defaultBoard.IsValid() {
		defaultBoard = domain.BoardKanban
	}
	return &NewTask{
		tasks:        tasks,
		ids:          ids,
		defaultBoard: defaultBoard,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	task := domain.Task{
		ID:                 uc.ids.NewID(),
		Title:              title,
		Description:        in.Description,
		Status:             orStatus(in.Status, domain.StatusTodo),
		Priority:           orPriority(in.Priority, domain.PriorityMedium),
		BoardType:          in.BoardType,
		DueDate:            in.DueDate,
		EstimatedTime:      in.EstimatedTime,
		Tags:               in.Tags,
		AcceptanceCriteria: nonEmpty(in.Criteria),
		StoryPoints:        in.StoryPoints,
	}
	if task.BoardType == "" {
		task.BoardType = uc.defaultBoard
	}
	if err := validateTask(&task); err != nil {
		return nil, err
	}

	created, err := uc.tasks.AddTask(task)
	if err != nil {
		return &NewTaskOutput{Task: created}, fmt.Errorf("save task: %w", err)
	}
	return &NewTaskOutput{Task: created}, nil
}

// validateTask checks the enumerated fields of a task.
func validateTask(t *domain.Task) error {
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPriority, t.Priority)
	}
	if !t.BoardType.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidBoardType, t.BoardType)
	}
	if !t.Status.AllowedOn(t.BoardType) {
		return fmt.Errorf("%w: %s on %s", domain.ErrStatusNotOnBoard, t.Status, t.BoardType)
	}
	if !domain.IsFibonacciPoint(t.StoryPoints) {
		return domain.ErrInvalidStoryPoints
	}
	return nil
}

func orStatus(s, fallback domain.Status) domain.Status {
	if s == "" {
		return fallback
	}
	return s
}

func orPriority(p, fallback domain.Priority) domain.Priority {
	if p == "" {
		return fallback
	}
	return p
}

// nonEmpty drops blank entries and trims the rest.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
