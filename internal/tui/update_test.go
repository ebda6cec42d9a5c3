package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/jsonstore"
	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/runoshun/taskflow/internal/usecase"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestContainer(t *testing.T, chat domain.ChatCompleter) *app.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := app.Config{
		DataDir:   dir,
		StorePath: filepath.Join(dir, "store.json"),
		LogPath:   filepath.Join(dir, "logs", "taskflow.log"),
	}
	backend := jsonstore.New(cfg.StorePath)
	_, err := backend.Initialize()
	require.NoError(t, err)

	c := app.NewWithDeps(cfg, backend, &testutil.MockClock{NowTime: baseTime}, &testutil.SequenceIDs{Prefix: "task"}, chat, nil)
	require.NoError(t, c.Load())
	return c
}

func addTask(t *testing.T, c *app.Container, title string) *domain.Task {
	t.Helper()
	out, err := c.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{Title: title})
	require.NoError(t, err)
	return out.Task
}

// run executes cmd and feeds every resulting message back into m.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoadedModel(t *testing.T, c *app.Container) *Model {
	t.Helper()
	m := New(c)
	run(t, m, m.Init())
	return m
}

func TestModel_LoadsKanbanBoard(t *testing.T) {
	c := newTestContainer(t, nil)
	addTask(t, c, "Write docs")
	addTask(t, c, "Fix login")

	m := newLoadedModel(t, c)

	require.Len(t, m.columns, 3)
	assert.Equal(t, domain.StatusTodo, m.columns[0].Status)
	assert.Len(t, m.columns[0].Tasks, 2)
	assert.NotNil(t, m.SelectedTask())
	assert.Contains(t, m.View(), "To Do (2)")
}

func TestModel_Navigation(t *testing.T) {
	c := newTestContainer(t, nil)
	addTask(t, c, "one")
	addTask(t, c, "two")
	m := newLoadedModel(t, c)

	m.Update(keyRunes("j"))
	assert.Equal(t, 1, m.row)

	m.Update(keyRunes("j"))
	assert.Equal(t, 1, m.row, "cursor stays on the last task")

	m.Update(keyRunes("l"))
	assert.Equal(t, 1, m.col)
	assert.Equal(t, 0, m.row, "empty column resets the row")
	assert.Nil(t, m.SelectedTask())

	m.Update(keyRunes("h"))
	assert.Equal(t, 0, m.col)
}

func TestModel_MoveTask(t *testing.T) {
	c := newTestContainer(t, nil)
	task := addTask(t, c, "ship it")
	m := newLoadedModel(t, c)

	_, cmd := m.Update(keyRunes("]"))
	run(t, m, cmd)

	got := c.Tasks.Get(task.ID)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, 1, m.col, "cursor follows the moved task")
	assert.Contains(t, m.status, "To Do -> In Progress")
}

func TestModel_NewTask(t *testing.T) {
	c := newTestContainer(t, nil)
	m := newLoadedModel(t, c)

	m.Update(keyRunes("n"))
	require.Equal(t, ModeInputTitle, m.Mode())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeInputTitle, m.Mode(), "empty title is ignored")

	m.Update(keyRunes("Plan release"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, m.Mode())
	run(t, m, cmd)

	require.Len(t, c.Tasks.List(), 1)
	assert.Equal(t, "Plan release", c.Tasks.List()[0].Title)
	assert.Len(t, m.columns[0].Tasks, 1)
}

func TestModel_DeleteTask(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		c := newTestContainer(t, nil)
		addTask(t, c, "obsolete")
		m := newLoadedModel(t, c)

		m.Update(keyRunes("d"))
		require.Equal(t, ModeConfirm, m.Mode())
		assert.Contains(t, m.View(), `Delete "obsolete"?`)

		_, cmd := m.Update(keyRunes("y"))
		run(t, m, cmd)

		assert.Empty(t, c.Tasks.List())
		assert.Equal(t, ModeNormal, m.Mode())
	})

	t.Run("cancelled", func(t *testing.T) {
		c := newTestContainer(t, nil)
		addTask(t, c, "keep me")
		m := newLoadedModel(t, c)

		m.Update(keyRunes("d"))
		_, cmd := m.Update(keyRunes("n"))
		assert.Nil(t, cmd)
		assert.Len(t, c.Tasks.List(), 1)
		assert.Equal(t, ModeNormal, m.Mode())
	})
}

func TestModel_SwitchBoard_NoActiveSprint(t *testing.T) {
	c := newTestContainer(t, nil)
	addTask(t, c, "kanban task")
	m := newLoadedModel(t, c)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	run(t, m, cmd)

	assert.Equal(t, domain.BoardScrum, m.board)
	assert.ErrorIs(t, m.err, domain.ErrNoActiveSprint)
	assert.Empty(t, m.columns)
	assert.Contains(t, m.View(), "No board to show")
}

func TestModel_Suggest(t *testing.T) {
	t.Run("advisor unavailable", func(t *testing.T) {
		c := newTestContainer(t, nil)
		addTask(t, c, "task")
		m := newLoadedModel(t, c)

		_, cmd := m.Update(keyRunes("a"))
		assert.Nil(t, cmd)
		assert.ErrorIs(t, m.err, domain.ErrAdvisorUnavailable)
	})

	t.Run("shows suggestion without applying it", func(t *testing.T) {
		chat := &testutil.MockChatCompleter{
			Replies: []string{`{"priority":"high","estimatedTime":3,"reasoning":"blocks release"}`},
		}
		c := newTestContainer(t, chat)
		task := addTask(t, c, "task")
		m := newLoadedModel(t, c)

		_, cmd := m.Update(keyRunes("a"))
		require.NotNil(t, cmd)
		run(t, m, cmd)

		assert.Contains(t, m.status, "high priority")
		assert.Contains(t, m.status, "blocks release")
		got := c.Tasks.Get(task.ID)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityMedium, got.Priority)
	})

	t.Run("ignores repeated requests until answered", func(t *testing.T) {
		chat := &testutil.MockChatCompleter{
			Replies: []string{`{"priority":"low","estimatedTime":1,"reasoning":"minor"}`},
		}
		c := newTestContainer(t, chat)
		addTask(t, c, "task")
		m := newLoadedModel(t, c)

		_, first := m.Update(keyRunes("a"))
		require.NotNil(t, first)
		_, second := m.Update(keyRunes("a"))
		assert.Nil(t, second)
		assert.Contains(t, m.View(), "AI is thinking...")

		run(t, m, first)
		assert.Equal(t, 1, chat.Calls())
		assert.Contains(t, m.status, "low priority")

		_, again := m.Update(keyRunes("a"))
		assert.NotNil(t, again)
	})
}

func TestModel_DetailAndHelp(t *testing.T) {
	c := newTestContainer(t, nil)
	addTask(t, c, "Detailed task")
	m := newLoadedModel(t, c)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModeDetail, m.Mode())
	assert.Contains(t, m.View(), "Detailed task")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.Mode())

	m.Update(keyRunes("?"))
	assert.Equal(t, ModeHelp, m.Mode())
	assert.Contains(t, m.View(), "switch board")
}

func TestModel_Quit(t *testing.T) {
	c := newTestContainer(t, nil)
	m := newLoadedModel(t, c)

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "normal", ModeNormal.String())
	assert.Equal(t, "input_title", ModeInputTitle.String())
	assert.Equal(t, "unknown", Mode(99).String())
	assert.True(t, ModeInputTitle.IsInputMode())
	assert.False(t, ModeConfirm.IsInputMode())
}
