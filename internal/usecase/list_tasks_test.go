package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/view"
)

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestListTasks_Execute(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, domain.Task{Title: "old low", Priority: domain.PriorityLow, CreatedAt: baseTime})
	f.addTask(t, domain.Task{Title: "new high", Priority: domain.PriorityHigh, CreatedAt: baseTime.Add(time.Hour)})
	f.addTask(t, domain.Task{Title: "mid scrum", Priority: domain.PriorityMedium, BoardType: domain.BoardScrum, CreatedAt: baseTime.Add(30 * time.Minute)})
	uc := NewListTasks(f.tasks)

	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new high", "mid scrum", "old low"}, titles(out.Tasks))

	out, err = uc.Execute(context.Background(), ListTasksInput{Sort: view.SortPriority, Filter: view.Filter{Board: domain.BoardKanban}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new high", "old low"}, titles(out.Tasks))

	out, err = uc.Execute(context.Background(), ListTasksInput{Filter: view.Filter{Priority: domain.PriorityLow}})
	require.NoError(t, err)
	assert.Equal(t, []string{"old low"}, titles(out.Tasks))
}

func TestListTasks_Execute_InvalidInput(t *testing.T) {
	f := newFixture(t)
	uc := NewListTasks(f.tasks)

	_, err := uc.Execute(context.Background(), ListTasksInput{Sort: "title"})
	assert.Error(t, err)

	_, err = uc.Execute(context.Background(), ListTasksInput{Filter: view.Filter{Priority: "urgent"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}
