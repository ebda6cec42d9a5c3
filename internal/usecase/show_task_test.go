package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestShowTask_Execute(t *testing.T) {
	f := newFixture(t)
	due := baseTime.Add(-time.Hour)
	task := f.addTask(t, domain.Task{ID: "abc123", Title: "Story", BoardType: domain.BoardScrum, DueDate: &due})
	sp := f.addSprint(t, "Sprint 1")
	f.plan(t, task.ID, sp.ID)

	out, err := NewShowTask(f.tasks, f.sprints, f.clock).Execute(context.Background(), ShowTaskInput{TaskID: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "Story", out.Task.Title)
	require.NotNil(t, out.Sprint)
	assert.Equal(t, "Sprint 1", out.Sprint.Name)
	assert.True(t, out.Overdue)
}

func TestShowTask_Execute_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := NewShowTask(f.tasks, f.sprints, f.clock).Execute(context.Background(), ShowTaskInput{TaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
