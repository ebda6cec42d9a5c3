package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTaskStore(t *testing.T) (*TaskStore, *testutil.MemoryKV, *testutil.MockClock) {
	t.Helper()
	kv := testutil.NewMemoryKV()
	clock := &testutil.MockClock{NowTime: baseTime}
	s := NewTaskStore(kv, clock, nil)
	_, err := s.Load()
	require.NoError(t, err)
	return s, kv, clock
}

func TestTaskStore_AddTask_Defaults(t *testing.T) {
	s, kv, _ := newTaskStore(t)

	got, err := s.AddTask(domain.Task{
		ID:       "t1",
		Title:    "Fix login",
		Status:   domain.StatusTodo,
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BoardKanban, got.BoardType)
	assert.Equal(t, 0, got.StoryPoints)
	assert.Nil(t, got.SprintID)
	assert.Equal(t, []string{}, got.AcceptanceCriteria)
	assert.Equal(t, baseTime, got.CreatedAt)

	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(kv.Raw(domain.KeyTasks)), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "kanban", stored[0]["boardType"])
	assert.Contains(t, stored[0], "sprintId")
	assert.Nil(t, stored[0]["sprintId"])
}

func TestTaskStore_AddTask_EmptySprintRefBecomesBacklog(t *testing.T) {
	s, _, _ := newTaskStore(t)
	empty := ""

	got, err := s.AddTask(domain.Task{ID: "t1", Title: "x", SprintID: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.SprintID)
}

func TestTaskStore_UpdateTaskStatus_Done(t *testing.T) {
	s, _, clock := newTaskStore(t)
	_, err := s.AddTask(domain.Task{ID: "t1", Title: "x", Status: domain.StatusTodo})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	ok, err := s.UpdateTaskStatus("t1", domain.StatusDone)
	require.NoError(t, err)
	require.True(t, ok)

	got := s.Get("t1")
	assert.Equal(t, domain.StatusDone, got.Status)
	require.NotNil(t, got.UpdatedAt)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *got.UpdatedAt)
	assert.Equal(t, baseTime.Add(time.Hour), *got.CompletedAt)

	// Re-marking done keeps the first completion time
	clock.Advance(time.Hour)
	_, err = s.UpdateTaskStatus("t1", domain.StatusDone)
	require.NoError(t, err)
	got = s.Get("t1")
	assert.Equal(t, baseTime.Add(time.Hour), *got.CompletedAt)
	assert.Equal(t, baseTime.Add(2*time.Hour), *got.UpdatedAt)

	// Leaving done clears it
	_, err = s.UpdateTaskStatus("t1", domain.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, s.Get("t1").CompletedAt)
}

func TestTaskStore_UpdateTask(t *testing.T) {
	s, _, clock := newTaskStore(t)
	_, err := s.AddTask(domain.Task{ID: "t1", Title: "old", Tags: []string{"a"}})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	title := "new"
	ok, err := s.UpdateTask(domain.TaskPatch{ID: "t1", Title: &title})
	require.NoError(t, err)
	require.True(t, ok)

	got := s.Get("t1")
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, baseTime.Add(time.Minute), *got.UpdatedAt)
}

func TestTaskStore_MissingIDIsNoop(t *testing.T) {
	s, kv, _ := newTaskStore(t)
	_, err := s.AddTask(domain.Task{ID: "t1", Title: "x"})
	require.NoError(t, err)
	before := len(kv.Puts)

	title := "y"
	ok, err := s.UpdateTask(domain.TaskPatch{ID: "nope", Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteTask("nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateStoryPoints("nope", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, kv.Puts, before, "no write for missing IDs")
}

func TestTaskStore_AddThenDeleteRestoresCollection(t *testing.T) {
	s, kv, _ := newTaskStore(t)
	_, err := s.AddTask(domain.Task{ID: "t1", Title: "keep"})
	require.NoError(t, err)
	before := kv.Raw(domain.KeyTasks)

	_, err = s.AddTask(domain.Task{ID: "t2", Title: "temp"})
	require.NoError(t, err)
	ok, err := s.DeleteTask("t2")
	require.NoError(t, err)
	require.True(t, ok)

	assert.JSONEq(t, before, kv.Raw(domain.KeyTasks))
}

func TestTaskStore_AssignAndRemoveSprint(t *testing.T) {
	s, _, _ := newTaskStore(t)
	_, err := s.AddTask(domain.Task{ID: "t1", Title: "x", BoardType: domain.BoardScrum})
	require.NoError(t, err)

	_, err = s.AssignToSprint("t1", "s1")
	require.NoError(t, err)
	assert.True(t, s.Get("t1").InSprint("s1"))

	_, err = s.RemoveFromSprint("t1")
	require.NoError(t, err)
	assert.True(t, s.Get("t1").InBacklog())
}

func TestTaskStore_ClearSprint(t *testing.T) {
	s, _, _ := newTaskStore(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.AddTask(domain.Task{ID: id, Title: id, BoardType: domain.BoardScrum})
		require.NoError(t, err)
	}
	_, _ = s.AssignToSprint("a", "s1")
	_, _ = s.AssignToSprint("b", "s2")
	_, _ = s.AssignToSprint("c", "s1")

	ids, err := s.ClearSprint("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.True(t, s.Get("a").InBacklog())
	assert.True(t, s.Get("b").InSprint("s2"))
}

func TestTaskStore_BulkUpdateTasks(t *testing.T) {
	s, kv, _ := newTaskStore(t)
	_, _ = s.AddTask(domain.Task{ID: "t1", Title: "a", Priority: domain.PriorityLow})
	_, _ = s.AddTask(domain.Task{ID: "t2", Title: "b", Priority: domain.PriorityLow})
	before := len(kv.Puts)

	high := domain.PriorityHigh
	est := "2h"
	n, err := s.BulkUpdateTasks([]domain.TaskPatch{
		{ID: "t1", Priority: &high, EstimatedTime: &est},
		{ID: "missing", Priority: &high},
		{ID: "t2", Priority: &high},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, kv.Puts, before+1, "bulk update writes once")
	assert.Equal(t, domain.PriorityHigh, s.Get("t1").Priority)
	assert.Equal(t, "2h", s.Get("t1").EstimatedTime)
	assert.Equal(t, domain.PriorityHigh, s.Get("t2").Priority)
}

func TestTaskStore_UpdateAcceptanceCriteria(t *testing.T) {
	s, _, _ := newTaskStore(t)
	_, _ = s.AddTask(domain.Task{ID: "t1", Title: "x"})

	criteria := []string{"loads in 1s", "shows errors"}
	_, err := s.UpdateAcceptanceCriteria("t1", criteria)
	require.NoError(t, err)
	criteria[0] = "mutated"

	assert.Equal(t, []string{"loads in 1s", "shows errors"}, s.Get("t1").AcceptanceCriteria)
}

func TestTaskStore_GetReturnsCopy(t *testing.T) {
	s, _, _ := newTaskStore(t)
	_, _ = s.AddTask(domain.Task{ID: "t1", Title: "x", Tags: []string{"a"}})

	got := s.Get("t1")
	got.Title = "changed"
	got.Tags[0] = "changed"

	assert.Equal(t, "x", s.Get("t1").Title)
	assert.Equal(t, []string{"a"}, s.Get("t1").Tags)
}

func TestTaskStore_Load_MigratesOldRecords(t *testing.T) {
	kv := testutil.NewMemoryKV()
	kv.Values[domain.KeyTasks] = []byte(`[
		{"id":"old","title":"legacy","description":"","status":"todo","priority":"low","createdAt":"2024-01-01T00:00:00Z","tags":[],"estimatedTime":""},
		{"id":"new","title":"fresh","description":"","status":"todo","priority":"low","createdAt":"2024-01-01T00:00:00Z","tags":[],"estimatedTime":"",
		 "sprintId":"s1","storyPoints":5,"acceptanceCriteria":["a"],"boardType":"scrum"}
	]`)
	s := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, nil)

	migrated, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	old := s.Get("old")
	assert.Nil(t, old.SprintID)
	assert.Equal(t, 0, old.StoryPoints)
	assert.Equal(t, []string{}, old.AcceptanceCriteria)
	assert.Equal(t, domain.BoardKanban, old.BoardType)

	fresh := s.Get("new")
	assert.True(t, fresh.InSprint("s1"))
	assert.Equal(t, 5, fresh.StoryPoints)
	assert.Equal(t, domain.BoardScrum, fresh.BoardType)

	// Written back with all fields present
	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(kv.Raw(domain.KeyTasks)), &stored))
	for _, rec := range stored {
		assert.Contains(t, rec, "sprintId")
		assert.Contains(t, rec, "storyPoints")
		assert.Contains(t, rec, "acceptanceCriteria")
		assert.Contains(t, rec, "boardType")
	}

	// Loading again finds nothing to migrate
	migrated, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)
}

func TestTaskStore_Load_CorruptDataDegradesToEmpty(t *testing.T) {
	kv := testutil.NewMemoryKV()
	kv.Values[domain.KeyTasks] = []byte(`{not json`)
	logger := &testutil.RecordingLogger{}
	s := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, logger)

	_, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, s.List())
	assert.Equal(t, 1, logger.Count("error"))
	assert.Equal(t, "{not json", kv.Raw("tasks.unreadable-20250310T090000Z"))

	_, err = s.AddTask(domain.Task{ID: "c", Title: "after"})
	require.NoError(t, err)
	assert.Equal(t, "{not json", kv.Raw("tasks.unreadable-20250310T090000Z"))
}

func TestTaskStore_Load_LegacyShapesSurvive(t *testing.T) {
	kv := testutil.NewMemoryKV()
	kv.Values[domain.KeyTasks] = []byte(`[
		{"id":"a","title":"keep me","description":"","status":"todo","priority":"high","createdAt":"2025-03-01T10:00:00.000Z","tags":[],"dueDate":"","estimatedTime":""},
		{"id":"b","title":"from ai","description":"","status":"todo","priority":"low","createdAt":"2025-03-01T10:00:00.000Z","tags":[],"dueDate":"2025-03-14","estimatedTime":2},
		{"id":"bad","title":"broken","sprintId":42}
	]`)
	logger := &testutil.RecordingLogger{}
	s := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, logger)

	migrated, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)
	assert.Equal(t, 2, logger.Count("warn"), "skipped record and backup notice")

	a := s.Get("a")
	require.NotNil(t, a)
	assert.Equal(t, "keep me", a.Title)
	assert.Nil(t, a.DueDate)

	b := s.Get("b")
	require.NotNil(t, b)
	assert.Equal(t, "2", b.EstimatedTime)
	assert.InDelta(t, 2.0, b.EstimatedHours(), 0.001)
	require.NotNil(t, b.DueDate)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *b.DueDate)
	assert.Nil(t, s.Get("bad"))

	var rejected []map[string]any
	require.NoError(t, json.Unmarshal([]byte(kv.Raw("tasks.unreadable-20250310T090000Z")), &rejected))
	require.Len(t, rejected, 1)
	assert.Equal(t, "bad", rejected[0]["id"])

	_, err = s.AddTask(domain.Task{ID: "c", Title: "new"})
	require.NoError(t, err)

	reloaded := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, nil)
	migrated, err = reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)
	ids := []string{}
	for _, task := range reloaded.List() {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestTaskStore_Load_BackupFailureKeepsData(t *testing.T) {
	kv := testutil.NewMemoryKV()
	raw := `[{"id":"bad","title":"broken","sprintId":42}]`
	kv.Values[domain.KeyTasks] = []byte(raw)
	kv.PutErr = errors.New("disk full")
	s := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, nil)

	_, err := s.Load()

	require.Error(t, err)
	assert.Equal(t, raw, kv.Raw(domain.KeyTasks))
}

func TestTaskStore_Load_NotInitialized(t *testing.T) {
	kv := testutil.NewMemoryKV()
	kv.Missing = true
	s := NewTaskStore(kv, &testutil.MockClock{NowTime: baseTime}, nil)

	_, err := s.Load()
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestTaskStore_WriteFailureKeepsMemory(t *testing.T) {
	s, kv, _ := newTaskStore(t)
	kv.PutErr = errors.New("disk full")

	_, err := s.AddTask(domain.Task{ID: "t1", Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist tasks")
	assert.NotNil(t, s.Get("t1"))
}
