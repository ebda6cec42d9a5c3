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

// EditSprintInput contains the parameters for editing a sprint.
// Fields are ordered to minimize memory padding.
type EditSprintInput struct {
	Name      *string
	Goal      *string
	StartDate *time.Time
	EndDate   *time.Time
	Capacity  *int
	Velocity  *int
	SprintID  string // Sprint ID or unique prefix (required)
}

// EditSprintOutput contains the result of editing a sprint.
type EditSprintOutput struct {
	Sprint *domain.Sprint
}

// EditSprint is the use case for editing a planned or active sprint.
type EditSprint struct {
	sprints *state.SprintStore
}

// NewEditSprint creates a new EditSprint use case.
func NewEditSprint(sprints *state.SprintStore) *EditSprint {
	return &EditSprint{sprints: sprints}
}

// Execute applies the changes. Completed sprints are read-only.
func (uc *EditSprint) Execute(_ context.Context, in EditSprintInput) (*EditSprintOutput, error) {
	patch := domain.SprintPatch{
		Name:      in.Name,
		Goal:      in.Goal,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Capacity:  in.Capacity,
	}
	if in.Name == nil && in.Goal == nil && in.StartDate == nil && in.EndDate == nil &&
		in.Capacity == nil && in.Velocity == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrEmptyName
		}
		patch.Name = &name
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative: %d", *in.Capacity)
	}

	sp, err := openSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}

	updated := sp.Clone()
	patch.Apply(updated)
	if updated.EndDate.Before(updated.StartDate) {
		return nil, domain.ErrInvalidDates
	}

	if _, err := uc.sprints.UpdateSprint(sp.ID, patch); err != nil {
		return nil, fmt.Errorf("update sprint: %w", err)
	}
	if in.Velocity != nil {
		if _, err := uc.sprints.UpdateVelocity(sp.ID, *in.Velocity); err != nil {
			return nil, fmt.Errorf("update velocity: %w", err)
		}
	}
	return &EditSprintOutput{Sprint: uc.sprints.Get(sp.ID)}, nil
}

// getOrActiveSprint resolves ref, or the active sprint when ref is empty.
func getOrActiveSprint(sprints *state.SprintStore, ref string) (*domain.Sprint, error) {
	if ref != "" {
		return shared.GetSprint(sprints, ref)
	}
	id := sprints.ActiveSprintID()
	if id == "" {
		return nil, domain.ErrNoActiveSprint
	}
	sp := sprints.Get(id)
	if sp == nil {
		return nil, domain.ErrNoActiveSprint
	}
	return sp, nil
}
