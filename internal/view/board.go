// Package view derives board and analytics views from task and sprint
// collections. Every function is pure and recomputes on each call.
package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// Column is one status column of a board.
type Column struct {
	Status domain.Status
	Tasks  []*domain.Task
}

// Board is a set of status columns in display order.
type Board struct {
	Type    domain.BoardType
	Columns []Column
}

// Count returns the number of tasks on the board.
func (b Board) Count() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Column returns the column for status, or nil if the board lacks it.
func (b Board) Column(status domain.Status) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// Backlog returns scrum tasks without a sprint reference. Tasks whose
// reference names a sprint that no longer exists are included too.
func Backlog(tasks []*domain.Task, sprints []*domain.Sprint) []*domain.Task {
	known := sprintIDs(sprints)
	var out []*domain.Task
	for _, t := range tasks {
		if !t.IsScrum() {
			continue
		}
		if t.InBacklog() || !known[t.SprintRef()] {
			out = append(out, t)
		}
	}
	return out
}

// SprintBoard partitions the scrum tasks of sprintID into the
// todo/in-progress/review/done columns. Tasks in other statuses are left out.
func SprintBoard(tasks []*domain.Task, sprintID string) Board {
	var sprintTasks []*domain.Task
	for _, t := range tasks {
		if t.InSprint(sprintID) {
			sprintTasks = append(sprintTasks, t)
		}
	}
	return partition(domain.BoardScrum, sprintTasks)
}

// KanbanBoard partitions kanban tasks into the todo/in-progress/done columns.
func KanbanBoard(tasks []*domain.Task) Board {
	var kanban []*domain.Task
	for _, t := range tasks {
		if t.BoardType == domain.BoardKanban {
			kanban = append(kanban, t)
		}
	}
	return partition(domain.BoardKanban, kanban)
}

func partition(board domain.BoardType, tasks []*domain.Task) Board {
	cols := board.Columns()
	b := Board{Type: board, Columns: make([]Column, len(cols))}
	for i, s := range cols {
		b.Columns[i].Status = s
	}
	for _, t := range tasks {
		if c := b.Column(t.Status); c != nil {
			c.Tasks = append(c.Tasks, t)
		}
	}
	return b
}

// ActiveSprint returns the sprint whose ID matches activeID, or nil.
func ActiveSprint(sprints []*domain.Sprint, activeID string) *domain.Sprint {
	if activeID == "" {
		return nil
	}
	for _, sp := range sprints {
		if sp.ID == activeID {
			return sp
		}
	}
	return nil
}

// PlannedSprints returns the sprints not yet started.
func PlannedSprints(sprints []*domain.Sprint) []*domain.Sprint {
	var out []*domain.Sprint
	for _, sp := range sprints {
		if sp.Status == domain.SprintPlanned {
			out = append(out, sp)
		}
	}
	return out
}

// TaskByID returns the task with id, or nil.
func TaskByID(tasks []*domain.Task, id string) *domain.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// SprintTasks resolves the sprint's task list to tasks, in planning order.
// IDs of deleted tasks are skipped.
func SprintTasks(tasks []*domain.Task, sp *domain.Sprint) []*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]*domain.Task, 0, len(sp.Tasks))
	for _, id := range sp.Tasks {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// SortKey orders task lists.
type SortKey string

const (
	SortCreatedAt SortKey = "createdAt" // Newest first
	SortPriority  SortKey = "priority"  // High first
	SortDueDate   SortKey = "dueDate"   // Soonest first, undated last
)

// IsValid returns true if the key is known.
func (k SortKey) IsValid() bool {
	return k == SortCreatedAt || k == SortPriority || k == SortDueDate
}

// Filter selects tasks for a list. Zero fields match everything.
type Filter struct {
	Priority domain.Priority
	Status   domain.Status
	Board    domain.BoardType
	Tag      string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t *domain.Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Board != "" && t.BoardType != f.Board {
		return false
	}
	if f.Tag != "" && !slices.Contains(t.Tags, f.Tag) {
		return false
	}
	return true
}

// FilterSort returns the tasks matching f ordered by key.
// Ties keep insertion order.
func FilterSort(tasks []*domain.Task, f Filter, key SortKey) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, compareBy(key))
	return out
}

func compareBy(key SortKey) func(a, b *domain.Task) int {
	switch key {
	case SortPriority:
		return func(a, b *domain.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortDueDate:
		return func(a, b *domain.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		}
	default:
		return func(a, b *domain.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// Overdue reports whether t has a due date before now and is not done.
func Overdue(t *domain.Task, now time.Time) bool {
	return t.DueDate != nil && !t.IsDone() && t.DueDate.Before(now)
}

func sprintIDs(sprints []*domain.Sprint) map[string]bool {
	ids := make(map[string]bool, len(sprints))
	for _, sp := range sprints {
		ids[sp.ID] = true
	}
	return ids
}
