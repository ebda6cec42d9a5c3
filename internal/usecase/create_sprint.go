package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// DefaultSprintLength is the sprint length used when no end date is given.
const DefaultSprintLength = 14 * 24 * time.Hour

// CreateSprintInput contains the parameters for creating a sprint.
// Fields are ordered to minimize memory padding.
type CreateSprintInput struct {
	StartDate time.Time // Start date (zero = today)
	EndDate   time.Time // End date (zero = start + two weeks)
	Name      string    // Sprint name (required)
	Goal      string    // Sprint goal (optional)
	Capacity  int       // Story point budget (0 = unlimited)
}

// CreateSprintOutput contains the result of creating a sprint.
type CreateSprintOutput struct {
	Sprint *domain.Sprint
}

// CreateSprint is the use case for creating a planned sprint.
type CreateSprint struct {
	sprints *state.SprintStore
	clock   domain.Clock
}

// NewCreateSprint creates a new CreateSprint use case.
func NewCreateSprint(sprints *state.SprintStore, clock domain.Clock) *CreateSprint {
	return &CreateSprint{sprints: sprints, clock: clock}
}

// Execute validates the input and creates the sprint.
func (uc *CreateSprint) Execute(_ context.Context, in CreateSprintInput) (*CreateSprintOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative: %d", in.Capacity)
	}

	start := in.StartDate
	if start.IsZero() {
		start = startOfDay(uc.clock.Now())
	}
	end := in.EndDate
	if end.IsZero() {
		end = start.Add(DefaultSprintLength)
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidDates
	}

	sp, err := uc.sprints.CreateSprint(state.NewSprint{
		Name:      name,
		Goal:      in.Goal,
		StartDate: start,
		EndDate:   end,
		Capacity:  in.Capacity,
	})
	if err != nil {
		return &CreateSprintOutput{Sprint: sp}, fmt.Errorf("save sprint: %w", err)
	}
	return &CreateSprintOutput{Sprint: sp}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
