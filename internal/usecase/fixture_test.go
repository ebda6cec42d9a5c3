package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/advisory"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
	"github.com/runoshun/taskflow/internal/testutil"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// fixture wires both stores to an in-memory KV store.
type fixture struct {
	kv      *testutil.MemoryKV
	clock   *testutil.MockClock
	ids     *testutil.SequenceIDs
	logger  *testutil.RecordingLogger
	chat    *testutil.MockChatCompleter
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		kv:     testutil.NewMemoryKV(),
		clock:  &testutil.MockClock{NowTime: baseTime},
		ids:    &testutil.SequenceIDs{Prefix: "t"},
		logger: &testutil.RecordingLogger{},
		chat:   &testutil.MockChatCompleter{},
	}
	f.tasks = state.NewTaskStore(f.kv, f.clock, f.logger)
	f.sprints = state.NewSprintStore(f.kv, f.clock, &testutil.SequenceIDs{Prefix: "s"}, f.logger)
	_, err := f.tasks.Load()
	require.NoError(t, err)
	require.NoError(t, f.sprints.Load())
	return f
}

func (f *fixture) advisor() *advisory.Advisor {
	return advisory.New(f.chat, f.clock, f.logger)
}

// addTask stores a task with a sequential ID.
func (f *fixture) addTask(t *testing.T, task domain.Task) *domain.Task {
	t.Helper()
	if task.ID == "" {
		task.ID = f.ids.NewID()
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	created, err := f.tasks.AddTask(task)
	require.NoError(t, err)
	return created
}

// addSprint creates a two-week sprint starting at baseTime.
func (f *fixture) addSprint(t *testing.T, name string) *domain.Sprint {
	t.Helper()
	sp, err := f.sprints.CreateSprint(state.NewSprint{
		Name:      name,
		StartDate: baseTime,
		EndDate:   baseTime.AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	return sp
}

// plan assigns task to sprint on both sides.
func (f *fixture) plan(t *testing.T, taskID, sprintID string) {
	t.Helper()
	_, err := f.tasks.AssignToSprint(taskID, sprintID)
	require.NoError(t, err)
	_, err = f.sprints.AddTaskToSprint(sprintID, taskID)
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}

func stateComplete(id string) state.CompleteSprint {
	return state.CompleteSprint{ID: id}
}
