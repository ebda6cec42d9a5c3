package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/usecase/shared"
	"github.com/runoshun/taskflow/internal/view"
)

// PlanTaskInput contains the parameters for planning a task into a sprint.
type PlanTaskInput struct {
	TaskID   string // Task ID or unique prefix
	SprintID string // Sprint ID or unique prefix
}

// PlanTaskOutput contains the result of planning a task.
type PlanTaskOutput struct {
	Task          *domain.Task
	Sprint        *domain.Sprint
	PlannedPoints int  // Story points in the sprint after planning
	OverCapacity  bool // PlannedPoints exceeds a non-zero capacity
}

// PlanTask moves a scrum task from the backlog (or another sprint) into a
// sprint, updating both the task's reference and the sprint's task list.
type PlanTask struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewPlanTask creates a new PlanTask use case.
func NewPlanTask(tasks *state.TaskStore, sprints *state.SprintStore) *PlanTask {
	return &PlanTask{tasks: tasks, sprints: sprints}
}

// Execute plans the task into the sprint.
func (uc *PlanTask) Execute(_ context.Context, in PlanTaskInput) (*PlanTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsScrum() {
		return nil, domain.ErrNotScrumTask
	}
	sp, err := openSprint(uc.sprints, in.SprintID)
	if err != nil {
		return nil, err
	}

	if prev := task.SprintRef(); prev != "" && prev != sp.ID {
		if _, err := uc.sprints.RemoveTaskFromSprint(prev, task.ID); err != nil {
			return nil, fmt.Errorf("remove from previous sprint: %w", err)
		}
	}
	if _, err := uc.tasks.AssignToSprint(task.ID, sp.ID); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}
	if _, err := uc.sprints.AddTaskToSprint(sp.ID, task.ID); err != nil {
		return nil, fmt.Errorf("add task to sprint: %w", err)
	}

	sp = uc.sprints.Get(sp.ID)
	points := view.SprintProgress(uc.tasks.List(), sp, sp.StartDate).TotalPoints
	return &PlanTaskOutput{
		Task:          uc.tasks.Get(task.ID),
		Sprint:        sp,
		PlannedPoints: points,
		OverCapacity:  sp.Capacity > 0 && points > sp.Capacity,
	}, nil
}

// UnplanTaskInput contains the parameters for returning a task to the backlog.
type UnplanTaskInput struct {
	TaskID string // Task ID or unique prefix
}

// UnplanTaskOutput contains the result of unplanning a task.
type UnplanTaskOutput struct {
	Task     *domain.Task
	SprintID string // Sprint the task was removed from ("" if it had none)
}

// UnplanTask returns a scrum task to the backlog.
type UnplanTask struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewUnplanTask creates a new UnplanTask use case.
func NewUnplanTask(tasks *state.TaskStore, sprints *state.SprintStore) *UnplanTask {
	return &UnplanTask{tasks: tasks, sprints: sprints}
}

// Execute clears the task's sprint reference and removes it from the sprint.
func (uc *UnplanTask) Execute(_ context.Context, in UnplanTaskInput) (*UnplanTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsScrum() {
		return nil, domain.ErrNotScrumTask
	}

	prev := task.SprintRef()
	if prev == "" {
		return &UnplanTaskOutput{Task: task}, nil
	}
	if err := unplan(uc.tasks, uc.sprints, task); err != nil {
		return nil, err
	}
	return &UnplanTaskOutput{Task: uc.tasks.Get(task.ID), SprintID: prev}, nil
}

// unplan clears both sides of a task's sprint membership.
func unplan(tasks *state.TaskStore, sprints *state.SprintStore, task *domain.Task) error {
	if _, err := tasks.RemoveFromSprint(task.ID); err != nil {
		return fmt.Errorf("clear sprint reference: %w", err)
	}
	if _, err := sprints.RemoveTaskFromSprint(task.SprintRef(), task.ID); err != nil {
		return fmt.Errorf("remove from sprint: %w", err)
	}
	return nil
}

// openSprint resolves ref to a planned or active sprint.
func openSprint(sprints *state.SprintStore, ref string) (*domain.Sprint, error) {
	sp, err := shared.GetSprint(sprints, ref)
	if err != nil {
		return nil, err
	}
	if sp.Status.IsTerminal() {
		return nil, domain.ErrSprintCompleted
	}
	return sp, nil
}
