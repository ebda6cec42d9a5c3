package domain

// Status represents the column a task sits in.
type Status string

const (
	StatusBacklog    Status = "backlog"     // Not yet planned
	StatusTodo       Status = "todo"        // Ready to start
	StatusInProgress Status = "in-progress" // Being worked on
	StatusReview     Status = "review"      // Awaiting review (scrum only)
	StatusDone       Status = "done"        // Completed
)

// AllStatuses returns all valid status values in board order.
func AllStatuses() []Status {
	return []Status{
		StatusBacklog,
		StatusTodo,
		StatusInProgress,
		StatusReview,
		StatusDone,
	}
}

// KanbanColumns returns the columns of the kanban board.
func KanbanColumns() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// SprintColumns returns the columns of a sprint board.
func SprintColumns() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}
}

// Columns returns the board columns for the given board type.
func (b BoardType) Columns() []Status {
	if b == BoardScrum {
		return SprintColumns()
	}
	return KanbanColumns()
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	default:
		return false
	}
}

// AllowedOn reports whether a task with this status is shown on the board.
// Review and backlog are scrum-only concepts.
func (s Status) AllowedOn(b BoardType) bool {
	if b == BoardScrum {
		return s.IsValid()
	}
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Next returns the column after s on board b, or s if it is the last one.
func (s Status) Next(b BoardType) Status {
	cols := b.Columns()
	for i, c := range cols {
		if c == s && i+1 < len(cols) {
			return cols[i+1]
		}
	}
	return s
}

// Prev returns the column before s on board b, or s if it is the first one.
func (s Status) Prev(b BoardType) Status {
	cols := b.Columns()
	for i, c := range cols {
		if c == s && i > 0 {
			return cols[i-1]
		}
	}
	return s
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}
