package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// SuggestPriorityInput contains the parameters for a priority suggestion.
type SuggestPriorityInput struct {
	TaskID string // Task ID or unique prefix
	Apply  bool   // Write the suggested priority and estimate to the task
}

// SuggestPriorityOutput contains the suggestion for one task.
type SuggestPriorityOutput struct {
	Task     *domain.Task
	Analysis *advisory.PriorityAnalysis
	Applied  bool
}

// SuggestPriority asks the advisor for a task's priority and hour estimate.
type SuggestPriority struct {
	tasks   *state.TaskStore
	advisor *advisory.Advisor
}

// NewSuggestPriority creates a new SuggestPriority use case.
func NewSuggestPriority(tasks *state.TaskStore, advisor *advisory.Advisor) *SuggestPriority {
	return &SuggestPriority{tasks: tasks, advisor: advisor}
}

// Execute requests the suggestion and optionally applies it.
func (uc *SuggestPriority) Execute(ctx context.Context, in SuggestPriorityInput) (*SuggestPriorityOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	analysis, err := uc.advisor.AnalyzeTaskPriority(ctx, task.Title, task.Description)
	if err != nil {
		return nil, err
	}

	out := &SuggestPriorityOutput{Task: task, Analysis: analysis}
	if !in.Apply {
		return out, nil
	}
	if _, err := uc.tasks.UpdateTask(priorityPatch(task.ID, *analysis)); err != nil {
		return out, fmt.Errorf("apply suggestion: %w", err)
	}
	out.Task = uc.tasks.Get(task.ID)
	out.Applied = true
	return out, nil
}

// PrioritizeAllInput contains the parameters for bulk prioritization.
type PrioritizeAllInput struct {
	Board domain.BoardType // Restrict to one board (empty = both)
	Apply bool             // Write every suggestion to its task
}

// TaskSuggestion pairs a task with its suggestion.
type TaskSuggestion struct {
	Task     *domain.Task
	Analysis advisory.PriorityAnalysis
}

// PrioritizeAllOutput contains the suggestions, in the order of the reply.
type PrioritizeAllOutput struct {
	Suggestions []TaskSuggestion
	Applied     int
}

// PrioritizeAll asks the advisor to prioritize every unfinished task in one
// request.
type PrioritizeAll struct {
	tasks   *state.TaskStore
	advisor *advisory.Advisor
}

// NewPrioritizeAll creates a new PrioritizeAll use case.
func NewPrioritizeAll(tasks *state.TaskStore, advisor *advisory.Advisor) *PrioritizeAll {
	return &PrioritizeAll{tasks: tasks, advisor: advisor}
}

// Execute requests the suggestions and optionally applies them in a single
// write.
func (uc *PrioritizeAll) Execute(ctx context.Context, in PrioritizeAllInput) (*PrioritizeAllOutput, error) {
	var pending []*domain.Task
	for _, t := range uc.tasks.List() {
		if t.IsDone() || (in.Board != "" && t.BoardType != in.Board) {
			continue
		}
		pending = append(pending, t)
	}

	analyses, err := uc.advisor.AnalyzeBulkTasks(ctx, pending)
	if err != nil {
		return nil, err
	}

	out := &PrioritizeAllOutput{Suggestions: make([]TaskSuggestion, 0, len(analyses))}
	patches := make([]domain.TaskPatch, 0, len(analyses))
	for _, a := range analyses {
		task := pending[a.Index]
		out.Suggestions = append(out.Suggestions, TaskSuggestion{Task: task, Analysis: a.PriorityAnalysis})
		patches = append(patches, priorityPatch(task.ID, a.PriorityAnalysis))
	}
	if !in.Apply || len(patches) == 0 {
		return out, nil
	}

	applied, err := uc.tasks.BulkUpdateTasks(patches)
	out.Applied = applied
	if err != nil {
		return out, fmt.Errorf("apply suggestions: %w", err)
	}
	return out, nil
}

// priorityPatch turns a suggestion into a task update.
func priorityPatch(id string, a advisory.PriorityAnalysis) domain.TaskPatch {
	priority := a.Priority
	hours := strconv.FormatFloat(a.EstimatedTime, 'f', -1, 64)
	return domain.TaskPatch{ID: id, Priority: &priority, EstimatedTime: &hours}
}
