package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/view"
)

// ShowBoardInput contains the parameters for showing a board.
type ShowBoardInput struct {
	Board    domain.BoardType // kanban or scrum (empty = configured default)
	SprintID string           // Sprint for the scrum board (empty = active sprint)
}

// ShowBoardOutput contains a board partitioned into columns.
// Sprint and Progress are set for the scrum board only.
type ShowBoardOutput struct {
	Sprint   *domain.Sprint
	Board    view.Board
	Progress view.Progress
}

// ShowBoard is the use case for rendering the kanban or sprint board.
type ShowBoard struct {
	tasks        *state.TaskStore
	sprints      *state.SprintStore
	clock        domain.Clock
	defaultBoard domain.BoardType
}

// NewShowBoard creates a new ShowBoard use case.
func NewShowBoard(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock, defaultBoard domain.BoardType) *ShowBoard {
	return &ShowBoard{tasks: tasks, sprints: sprints, clock: clock, defaultBoard: defaultBoard}
}

// Execute builds the board. The scrum board needs an active sprint unless a
// sprint is named.
func (uc *ShowBoard) Execute(_ context.Context, in ShowBoardInput) (*ShowBoardOutput, error) {
	board := in.Board
	if board == "" {
		board = uc.defaultBoard
	}
	tasks := uc.tasks.List()

	switch board {
	case domain.BoardKanban, "":
		return &ShowBoardOutput{Board: view.KanbanBoard(tasks)}, nil
	case domain.BoardScrum:
		sp, err := getOrActiveSprint(uc.sprints, in.SprintID)
		if err != nil {
			return nil, err
		}
		return &ShowBoardOutput{
			Sprint:   sp,
			Board:    view.SprintBoard(tasks, sp.ID),
			Progress: view.SprintProgress(tasks, sp, uc.clock.Now()),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBoardType, board)
	}
}

// ShowBacklogInput contains the parameters for showing the backlog.
type ShowBacklogInput struct {
	Sort view.SortKey // Sort order (empty = priority)
}

// ShowBacklogOutput contains the backlog and the sprints it can be planned into.
type ShowBacklogOutput struct {
	Tasks   []*domain.Task
	Planned []*domain.Sprint
	Active  *domain.Sprint
	Points  int // Story points in the backlog
}

// ShowBacklog is the use case for listing unplanned scrum tasks.
type ShowBacklog struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewShowBacklog creates a new ShowBacklog use case.
func NewShowBacklog(tasks *state.TaskStore, sprints *state.SprintStore) *ShowBacklog {
	return &ShowBacklog{tasks: tasks, sprints: sprints}
}

// Execute returns the backlog.
func (uc *ShowBacklog) Execute(_ context.Context, in ShowBacklogInput) (*ShowBacklogOutput, error) {
	key := in.Sort
	if key == "" {
		key = view.SortPriority
	}
	if !key.IsValid() {
		return nil, fmt.Errorf("unknown sort key %q (use createdAt, priority or dueDate)", key)
	}

	sprints := uc.sprints.List()
	backlog := view.FilterSort(view.Backlog(uc.tasks.List(), sprints), view.Filter{}, key)
	points := 0
	for _, t := range backlog {
		points += t.StoryPoints
	}
	return &ShowBacklogOutput{
		Tasks:   backlog,
		Planned: view.PlannedSprints(sprints),
		Active:  view.ActiveSprint(sprints, uc.sprints.ActiveSprintID()),
		Points:  points,
	}, nil
}

// ShowStatsInput contains the parameters for computing analytics.
type ShowStatsInput struct {
	TrendDays int // Completion trend window (0 = configured default)
}

// ShowStatsOutput contains analytics and the active sprint's progress.
type ShowStatsOutput struct {
	Active    *domain.Sprint
	Analytics view.Analytics
	Progress  view.Progress
}

// ShowStats is the use case for the analytics dashboard.
type ShowStats struct {
	tasks     *state.TaskStore
	sprints   *state.SprintStore
	clock     domain.Clock
	trendDays int
}

// NewShowStats creates a new ShowStats use case.
func NewShowStats(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock, trendDays int) *ShowStats {
	if trendDays <= 0 {
		trendDays = domain.DefaultTrendDays
	}
	return &ShowStats{tasks: tasks, sprints: sprints, clock: clock, trendDays: trendDays}
}

// Execute computes the analytics.
func (uc *ShowStats) Execute(_ context.Context, in ShowStatsInput) (*ShowStatsOutput, error) {
	days := in.TrendDays
	if days <= 0 {
		days = uc.trendDays
	}

	now := uc.clock.Now()
	tasks := uc.tasks.List()
	sprints := uc.sprints.List()
	out := &ShowStatsOutput{
		Analytics: view.ComputeAnalytics(tasks, sprints, uc.sprints.History(), now, days),
	}
	if active := view.ActiveSprint(sprints, uc.sprints.ActiveSprintID()); active != nil {
		out.Active = active
		out.Progress = view.SprintProgress(tasks, active, now)
	}
	return out, nil
}
