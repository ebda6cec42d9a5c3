// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Task represents a unit of work on the kanban or scrum board.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt          time.Time  `json:"createdAt" yaml:"createdAt"`                                       // Creation time
	DueDate            *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`                       // Due date (optional)
	UpdatedAt          *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`                   // Last update time
	CompletedAt        *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`               // When status became done
	SprintID           *string    `json:"sprintId" yaml:"sprintId"`                                         // Sprint reference (nil = backlog)
	ID                 string     `json:"id" yaml:"id"`                                                     // Unique identifier
	Title              string     `json:"title" yaml:"title"`                                               // Title (required)
	Description        string     `json:"description" yaml:"description,omitempty"`                         // Description
	Status             Status     `json:"status" yaml:"status"`                                             // Current status
	Priority           Priority   `json:"priority" yaml:"priority"`                                         // Priority
	BoardType          BoardType  `json:"boardType" yaml:"boardType"`                                       // Board partition
	EstimatedTime      string     `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`           // Estimated hours
	Tags               []string   `json:"tags,omitempty" yaml:"tags,omitempty"`                             // Tags
	AcceptanceCriteria []string   `json:"acceptanceCriteria" yaml:"acceptanceCriteria"`                     // Acceptance criteria
	StoryPoints        int        `json:"storyPoints" yaml:"storyPoints"`                                   // Story points (0 = unestimated)
}

// IsScrum reports whether the task belongs to the scrum board.
func (t *Task) IsScrum() bool {
	return t.BoardType == BoardScrum
}

// IsDone reports whether the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// InBacklog reports whether the task is a scrum task without a sprint.
func (t *Task) InBacklog() bool {
	return t.IsScrum() && (t.SprintID == nil || *t.SprintID == "")
}

// InSprint reports whether the task is a scrum task assigned to sprintID.
func (t *Task) InSprint(sprintID string) bool {
	return t.IsScrum() && t.SprintID != nil && *t.SprintID == sprintID
}

// SprintRef returns the sprint reference or an empty string.
func (t *Task) SprintRef() string {
	if t.SprintID == nil {
		return ""
	}
	return *t.SprintID
}

// EstimatedHours parses EstimatedTime as a number of hours.
// Unparsable or empty values count as zero.
func (t *Task) EstimatedHours() float64 {
	s := strings.TrimSpace(t.EstimatedTime)
	if s == "" {
		return 0
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return h
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.DueDate = cloneTime(t.DueDate)
	c.UpdatedAt = cloneTime(t.UpdatedAt)
	c.CompletedAt = cloneTime(t.CompletedAt)
	if t.SprintID != nil {
		id := *t.SprintID
		c.SprintID = &id
	}
	c.Tags = slices.Clone(t.Tags)
	c.AcceptanceCriteria = slices.Clone(t.AcceptanceCriteria)
	return &c
}

// TaskPatch holds a partial task update. Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type TaskPatch struct {
	Title              *string
	Description        *string
	Status             *Status
	Priority           *Priority
	BoardType          *BoardType
	DueDate            *time.Time
	Tags               *[]string
	StoryPoints        *int
	EstimatedTime      *string
	AcceptanceCriteria *[]string
	ID                 string
	ClearDueDate       bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.BoardType == nil && p.DueDate == nil && p.Tags == nil && p.StoryPoints == nil &&
		p.EstimatedTime == nil && p.AcceptanceCriteria == nil && !p.ClearDueDate
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.BoardType != nil {
		t.BoardType = *p.BoardType
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	if p.StoryPoints != nil {
		t.StoryPoints = *p.StoryPoints
	}
	if p.EstimatedTime != nil {
		t.EstimatedTime = *p.EstimatedTime
	}
	if p.AcceptanceCriteria != nil {
		t.AcceptanceCriteria = append([]string{}, (*p.AcceptanceCriteria)...)
	}
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns priorities from highest to lowest.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// BoardType partitions tasks between the kanban and scrum boards.
type BoardType string

const (
	BoardKanban BoardType = "kanban"
	BoardScrum  BoardType = "scrum"
)

// IsValid returns true if the board type is a known value.
func (b BoardType) IsValid() bool {
	return b == BoardKanban || b == BoardScrum
}

// FibonacciPoints is the story point scale accepted for manual estimates.
var FibonacciPoints = []int{0, 1, 2, 3, 5, 8, 13, 21}

// IsFibonacciPoint reports whether n is on the story point scale.
func IsFibonacciPoint(n int) bool {
	return slices.Contains(FibonacciPoints, n)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
