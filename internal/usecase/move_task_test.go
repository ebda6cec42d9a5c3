package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestMoveTask_Execute(t *testing.T) {
	tests := []struct {
		name      string
		board     domain.BoardType
		from      domain.Status
		in        MoveTaskInput
		want      domain.Status
		wantErr   error
		completed bool
	}{
		{name: "to done stamps completion", board: domain.BoardKanban, from: domain.StatusTodo,
			in: MoveTaskInput{Status: domain.StatusDone}, want: domain.StatusDone, completed: true},
		{name: "next on kanban skips review", board: domain.BoardKanban, from: domain.StatusInProgress,
			in: MoveTaskInput{Direction: MoveNext}, want: domain.StatusDone, completed: true},
		{name: "next on scrum goes to review", board: domain.BoardScrum, from: domain.StatusInProgress,
			in: MoveTaskInput{Direction: MoveNext}, want: domain.StatusReview},
		{name: "prev at first column stays", board: domain.BoardKanban, from: domain.StatusTodo,
			in: MoveTaskInput{Direction: MovePrev}, want: domain.StatusTodo},
		{name: "review not on kanban", board: domain.BoardKanban, from: domain.StatusTodo,
			in: MoveTaskInput{Status: domain.StatusReview}, wantErr: domain.ErrStatusNotOnBoard},
		{name: "unknown status", board: domain.BoardKanban, from: domain.StatusTodo,
			in: MoveTaskInput{Status: "blocked"}, wantErr: domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			task := f.addTask(t, domain.Task{Title: "Task", BoardType: tt.board, Status: tt.from})
			tt.in.TaskID = task.ID

			out, err := NewMoveTask(f.tasks).Execute(context.Background(), tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.tasks.Get(task.ID).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, out.From)
			assert.Equal(t, tt.want, out.Task.Status)
			assert.Equal(t, tt.completed, out.Task.CompletedAt != nil)
		})
	}
}
