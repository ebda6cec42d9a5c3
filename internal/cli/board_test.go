package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoardCommand_Kanban(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newNewCommand(c), "--title", "Write docs")
	mustExecute(t, newNewCommand(c), "--title", "Fix bug", "-p", "high")
	mustExecute(t, newMoveCommand(c), "id-2", "in-progress")
	mustExecute(t, newNewCommand(c), "--title", "Story", "--board", "scrum")

	out := mustExecute(t, newBoardCommand(c))

	assert.Contains(t, out, "## To Do (1)")
	assert.Contains(t, out, "## In Progress (1)")
	assert.Contains(t, out, "## Done (0)")
	assert.Contains(t, out, "Fix bug")
	assert.NotContains(t, out, "Story", "scrum tasks stay off the kanban board")
	assert.NotContains(t, out, "Sprint:")
}

func TestNewBoardCommand_InvalidBoard(t *testing.T) {
	c := newTestContainer(t, nil)

	_, _, err := execute(t, newBoardCommand(c), "--board", "gantt")

	assert.Error(t, err)
}

func TestNewBacklogCommand(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newSprintCommand(c), "new", "--name", "Next up")
	mustExecute(t, newNewCommand(c), "--title", "Unplanned", "--board", "scrum", "--points", "3")
	mustExecute(t, newNewCommand(c), "--title", "Planned", "--board", "scrum", "--points", "2")
	mustExecute(t, newSprintCommand(c), "plan", "id-3", "id-1")

	out := mustExecute(t, newBacklogCommand(c))

	assert.Contains(t, out, "Backlog: 1 task(s), 3 point(s)")
	assert.Contains(t, out, "Unplanned")
	assert.NotContains(t, out, "id-3")
	assert.Contains(t, out, "Next up (planned)")
}

func TestNewStatsCommand(t *testing.T) {
	c := newTestContainer(t, nil)
	mustExecute(t, newNewCommand(c), "--title", "Open", "-p", "high", "--estimate", "2")
	mustExecute(t, newNewCommand(c), "--title", "Late", "--due", "2025-03-01")
	mustExecute(t, newNewCommand(c), "--title", "Finished")
	mustExecute(t, newMoveCommand(c), "id-3", "done")

	out := mustExecute(t, newStatsCommand(c), "--trend", "3")

	assert.Contains(t, out, "Tasks: 3 total, 1 done (33%), 1 overdue")
	assert.Contains(t, out, "By status:")
	assert.Contains(t, out, "By priority:")
	assert.Contains(t, out, "(2.0h estimated)")
	assert.Contains(t, out, "Completed per day:")
	assert.Contains(t, out, "2025-03-10 # 1")
	assert.NotContains(t, out, "Active sprint:")
}
