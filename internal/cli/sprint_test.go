package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestSprintCommand_Lifecycle(t *testing.T) {
	c := newTestContainer(t, nil)

	out := mustExecute(t, newSprintCommand(c), "new", "--name", "Sprint 1", "--goal", "Ship reset", "--capacity", "3")
	assert.Contains(t, out, "Created sprint id-1: Sprint 1")

	mustExecute(t, newNewCommand(c), "--title", "Reset story", "--board", "scrum", "--points", "5")

	out, stderr, err := execute(t, newSprintCommand(c), "plan", "id-2", "id-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Planned task id-2 into sprint Sprint 1 (5 points planned)")
	assert.Contains(t, stderr, "over capacity (5/3 points)")

	out = mustExecute(t, newSprintCommand(c), "start", "id-1")
	assert.Contains(t, out, "Started sprint id-1: Sprint 1")

	out = mustExecute(t, newBoardCommand(c), "--board", "scrum")
	assert.Contains(t, out, "Sprint: Sprint 1")
	assert.Contains(t, out, "Goal: Ship reset")
	assert.Contains(t, out, "## To Do (1)")
	assert.Contains(t, out, "Reset story [5 pts]")

	mustExecute(t, newMoveCommand(c), "id-2", "done")

	out = mustExecute(t, newSprintCommand(c), "complete", "--retro", "Went fine")
	assert.Contains(t, out, "Completed sprint id-1: Sprint 1")
	assert.Contains(t, out, "Velocity: 5")

	out = mustExecute(t, newSprintCommand(c), "list", "--history")
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "completed")
	assert.Equal(t, out, mustExecute(t, newSprintCommand(c), "history"))

	out = mustExecute(t, newSprintCommand(c), "list")
	assert.Contains(t, out, "No sprints.")

	_, _, err = execute(t, newBoardCommand(c), "--board", "scrum")
	assert.ErrorIs(t, err, domain.ErrNoActiveSprint)
}

func TestSprintCommand_CompleteReturnsUnfinished(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newSprintCommand(c), "new", "--name", "Short")
	mustExecute(t, newNewCommand(c), "--title", "Left over", "--board", "scrum")
	mustExecute(t, newSprintCommand(c), "plan", "id-2", "id-1")
	mustExecute(t, newSprintCommand(c), "start", "id-1")

	out := mustExecute(t, newSprintCommand(c), "complete")

	assert.Contains(t, out, "Returned to backlog: id-2")
	assert.True(t, onlyTask(t, c).InBacklog())
}

func TestSprintCommand_StartDemotesActive(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newSprintCommand(c), "new", "--name", "First")
	mustExecute(t, newSprintCommand(c), "new", "--name", "Second")
	mustExecute(t, newSprintCommand(c), "start", "id-1")

	out := mustExecute(t, newSprintCommand(c), "start", "id-2")

	assert.Contains(t, out, "Sprint id-1 returned to planned")
	assert.Contains(t, out, "Started sprint id-2: Second")
}

func TestSprintCommand_Errors(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newNewCommand(c), "--title", "Kanban task")

	t.Run("end before start", func(t *testing.T) {
		_, _, err := execute(t, newSprintCommand(c), "new", "--name", "Bad", "--start", "2025-03-10", "--end", "2025-03-01")
		assert.ErrorIs(t, err, domain.ErrInvalidDates)
	})

	t.Run("plan kanban task", func(t *testing.T) {
		mustExecute(t, newSprintCommand(c), "new", "--name", "Sprint")
		sprints := c.Sprints.List()
		require.Len(t, sprints, 1)

		_, _, err := execute(t, newSprintCommand(c), "plan", "id-1", sprints[0].ID)
		assert.ErrorIs(t, err, domain.ErrNotScrumTask)
	})

	t.Run("complete without active sprint", func(t *testing.T) {
		_, _, err := execute(t, newSprintCommand(c), "complete")
		assert.ErrorIs(t, err, domain.ErrNoActiveSprint)
	})
}

func TestSprintCommand_Unplan(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newSprintCommand(c), "new", "--name", "Sprint")
	mustExecute(t, newNewCommand(c), "--title", "Story", "--board", "scrum")
	mustExecute(t, newSprintCommand(c), "plan", "id-2", "id-1")

	out := mustExecute(t, newSprintCommand(c), "unplan", "id-2")
	assert.Contains(t, out, "Returned task id-2 to the backlog")

	out = mustExecute(t, newSprintCommand(c), "unplan", "id-2")
	assert.Contains(t, out, "already in the backlog")
}
