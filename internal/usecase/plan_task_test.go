package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestPlanTask_Execute_DualWrite(t *testing.T) {
	f := newFixture(t)
	task := f.addTask(t, domain.Task{Title: "Story", BoardType: domain.BoardScrum, StoryPoints: 8})
	sp, err := NewCreateSprint(f.sprints, f.clock).Execute(context.Background(), CreateSprintInput{Name: "Sprint 1", Capacity: 5})
	require.NoError(t, err)

	out, err := NewPlanTask(f.tasks, f.sprints).Execute(context.Background(), PlanTaskInput{TaskID: task.ID, SprintID: sp.Sprint.ID})
	require.NoError(t, err)

	assert.Equal(t, sp.Sprint.ID, out.Task.SprintRef())
	assert.Equal(t, []string{task.ID}, out.Sprint.Tasks)
	assert.Equal(t, 8, out.PlannedPoints)
	assert.True(t, out.OverCapacity)
}

func TestPlanTask_Execute_MovesBetweenSprints(t *testing.T) {
	f := newFixture(t)
	task := f.addTask(t, domain.Task{Title: "Story", BoardType: domain.BoardScrum})
	first := f.addSprint(t, "First")
	second := f.addSprint(t, "Second")
	uc := NewPlanTask(f.tasks, f.sprints)

	_, err := uc.Execute(context.Background(), PlanTaskInput{TaskID: task.ID, SprintID: first.ID})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), PlanTaskInput{TaskID: task.ID, SprintID: second.ID})
	require.NoError(t, err)

	assert.Empty(t, f.sprints.Get(first.ID).Tasks)
	assert.Equal(t, []string{task.ID}, f.sprints.Get(second.ID).Tasks)
	assert.Equal(t, second.ID, f.tasks.Get(task.ID).SprintRef())
}

func TestPlanTask_Execute_Errors(t *testing.T) {
	f := newFixture(t)
	kanban := f.addTask(t, domain.Task{Title: "Kanban"})
	scrum := f.addTask(t, domain.Task{Title: "Scrum", BoardType: domain.BoardScrum})
	sp := f.addSprint(t, "Sprint")
	uc := NewPlanTask(f.tasks, f.sprints)

	_, err := uc.Execute(context.Background(), PlanTaskInput{TaskID: kanban.ID, SprintID: sp.ID})
	assert.ErrorIs(t, err, domain.ErrNotScrumTask)

	_, err = uc.Execute(context.Background(), PlanTaskInput{TaskID: scrum.ID, SprintID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSprintNotFound)

	require.NoError(t, f.sprints.StartSprint(sp.ID))
	_, err = f.sprints.CompleteSprint(stateComplete(sp.ID))
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), PlanTaskInput{TaskID: scrum.ID, SprintID: sp.ID})
	assert.ErrorIs(t, err, domain.ErrSprintCompleted)

	assert.True(t, f.tasks.Get(scrum.ID).InBacklog())
}

func TestUnplanTask_Execute(t *testing.T) {
	f := newFixture(t)
	task := f.addTask(t, domain.Task{Title: "Story", BoardType: domain.BoardScrum})
	sp := f.addSprint(t, "Sprint")
	f.plan(t, task.ID, sp.ID)
	uc := NewUnplanTask(f.tasks, f.sprints)

	out, err := uc.Execute(context.Background(), UnplanTaskInput{TaskID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, sp.ID, out.SprintID)
	assert.True(t, out.Task.InBacklog())
	assert.Empty(t, f.sprints.Get(sp.ID).Tasks)

	again, err := uc.Execute(context.Background(), UnplanTaskInput{TaskID: task.ID})
	require.NoError(t, err)
	assert.Empty(t, again.SprintID)
}
