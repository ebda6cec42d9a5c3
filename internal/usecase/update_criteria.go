package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
)

// UpdateCriteriaInput contains the parameters for editing acceptance criteria.
// Add is applied after Remove; Set replaces the whole list when non-nil.
type UpdateCriteriaInput struct {
	Set    *[]string // Replace all criteria
	TaskID string    // Task ID or unique prefix
	Add    []string  // Criteria to append
	Remove []int     // 1-based positions to remove
}

// UpdateCriteriaOutput contains the resulting criteria.
type UpdateCriteriaOutput struct {
	Criteria []string
}

// UpdateCriteria is the use case for editing a task's acceptance criteria.
type UpdateCriteria struct {
	tasks *state.TaskStore
}

// NewUpdateCriteria creates a new UpdateCriteria use case.
func NewUpdateCriteria(tasks *state.TaskStore) *UpdateCriteria {
	return &UpdateCriteria{tasks: tasks}
}

// Execute edits the criteria list. With no changes it returns the current list.
func (uc *UpdateCriteria) Execute(_ context.Context, in UpdateCriteriaInput) (*UpdateCriteriaOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if in.Set == nil && len(in.Add) == 0 && len(in.Remove) == 0 {
		return &UpdateCriteriaOutput{Criteria: task.AcceptanceCriteria}, nil
	}

	criteria := task.AcceptanceCriteria
	if in.Set != nil {
		criteria = nonEmpty(*in.Set)
	}

	if len(in.Remove) > 0 {
		drop := make(map[int]bool, len(in.Remove))
		for _, pos := range in.Remove {
			if pos < 1 || pos > len(criteria) {
				return nil, fmt.Errorf("criterion %d out of range (1-%d)", pos, len(criteria))
			}
			drop[pos-1] = true
		}
		kept := make([]string, 0, len(criteria))
		for i, c := range criteria {
			if !drop[i] {
				kept = append(kept, c)
			}
		}
		criteria = kept
	}

	for _, c := range nonEmpty(in.Add) {
		if !slices.ContainsFunc(criteria, func(x string) bool { return strings.EqualFold(x, c) }) {
			criteria = append(criteria, c)
		}
	}

	if _, err := uc.tasks.UpdateAcceptanceCriteria(task.ID, criteria); err != nil {
		return nil, fmt.Errorf("update criteria: %w", err)
	}
	return &UpdateCriteriaOutput{Criteria: uc.tasks.Get(task.ID).AcceptanceCriteria}, nil
}
