package domain

import (
	"slices"
	"time"
)

// Sprint is a time-boxed set of scrum tasks.
// Fields are ordered to minimize memory padding.
type Sprint struct {
	StartDate     time.Time    `json:"startDate" yaml:"startDate"`
	EndDate       time.Time    `json:"endDate" yaml:"endDate"`
	CreatedAt     time.Time    `json:"createdAt" yaml:"createdAt"`
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	Goal          string       `json:"goal" yaml:"goal"`
	Status        SprintStatus `json:"status" yaml:"status"`
	Retrospective string       `json:"retrospective,omitempty" yaml:"retrospective,omitempty"`
	Tasks         []string     `json:"tasks" yaml:"tasks"`       // Task IDs in planning order
	Capacity      int          `json:"capacity" yaml:"capacity"` // Story point budget (0 = unlimited)
	Velocity      int          `json:"velocity" yaml:"velocity"` // Story points completed
}

// HasTask reports whether taskID is in the sprint's task list.
func (s *Sprint) HasTask(taskID string) bool {
	return slices.Contains(s.Tasks, taskID)
}

// Clone returns a deep copy of the sprint.
func (s *Sprint) Clone() *Sprint {
	c := *s
	c.Tasks = slices.Clone(s.Tasks)
	if c.Tasks == nil {
		c.Tasks = []string{}
	}
	return &c
}

// TotalDays returns the sprint length in whole days, at least 1.
func (s *Sprint) TotalDays() int {
	return max(ceilDays(s.EndDate.Sub(s.StartDate)), 1)
}

// ElapsedDays returns the number of days between the start date and now.
func (s *Sprint) ElapsedDays(now time.Time) int {
	return max(ceilDays(now.Sub(s.StartDate)), 0)
}

func ceilDays(d time.Duration) int {
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"   // Created, not started
	SprintActive    SprintStatus = "active"    // In progress
	SprintCompleted SprintStatus = "completed" // Finished (terminal)
)

// sprintTransitions defines the one-way sprint lifecycle.
// Flow: planned → active → completed
var sprintTransitions = map[SprintStatus][]SprintStatus{
	SprintPlanned:   {SprintActive},
	SprintActive:    {SprintCompleted},
	SprintCompleted: {},
}

// CanTransitionTo returns true if the sprint can move to the target status.
func (s SprintStatus) CanTransitionTo(target SprintStatus) bool {
	return slices.Contains(sprintTransitions[s], target)
}

// IsTerminal returns true if the status is a terminal state.
func (s SprintStatus) IsTerminal() bool {
	return s == SprintCompleted
}

// IsValid returns true if the status is a known value.
func (s SprintStatus) IsValid() bool {
	_, ok := sprintTransitions[s]
	return ok
}

// SprintPatch holds a partial sprint update. Nil fields are left unchanged.
type SprintPatch struct {
	Name      *string
	Goal      *string
	StartDate *time.Time
	EndDate   *time.Time
	Capacity  *int
}

// Apply merges the patch into s.
func (p SprintPatch) Apply(s *Sprint) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Goal != nil {
		s.Goal = *p.Goal
	}
	if p.StartDate != nil {
		s.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.Capacity != nil {
		s.Capacity = *p.Capacity
	}
}
