package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestExportImport_RoundTrip(t *testing.T) {
	src := newFixture(t)
	sp := src.addSprint(t, "Sprint 1")
	story := src.addTask(t, domain.Task{Title: "Story", BoardType: domain.BoardScrum, StoryPoints: 3, AcceptanceCriteria: []string{"works"}})
	src.addTask(t, domain.Task{Title: "Chore", Tags: []string{"ops"}})
	src.plan(t, story.ID, sp.ID)
	require.NoError(t, src.sprints.StartSprint(sp.ID))

	var buf bytes.Buffer
	exported, err := NewExportState(src.tasks, src.sprints, src.clock).Execute(context.Background(), ExportStateInput{W: &buf})
	require.NoError(t, err)
	assert.Equal(t, 2, exported.Tasks)
	assert.Equal(t, 1, exported.Sprints)
	assert.Contains(t, buf.String(), "version: 1")

	dst := newFixture(t)
	imported, err := NewImportState(dst.tasks, dst.sprints).Execute(context.Background(), ImportStateInput{R: &buf})
	require.NoError(t, err)

	assert.Equal(t, 2, imported.Tasks)
	assert.Equal(t, titles(src.tasks.List()), titles(dst.tasks.List()))
	got := dst.tasks.Get(story.ID)
	require.NotNil(t, got)
	assert.Equal(t, sp.ID, got.SprintRef())
	assert.Equal(t, 3, got.StoryPoints)
	assert.Equal(t, []string{"works"}, got.AcceptanceCriteria)
	assert.True(t, got.CreatedAt.Equal(story.CreatedAt))

	require.Len(t, dst.sprints.List(), 1)
	assert.Equal(t, []string{story.ID}, dst.sprints.List()[0].Tasks)
	assert.Equal(t, sp.ID, dst.sprints.ActiveSprintID())
}

func TestImportState_Execute_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "empty", doc: "", wantErr: domain.ErrInvalidSnapshot},
		{name: "unknown field", doc: "version: 1\nboards: []\n", wantErr: domain.ErrInvalidSnapshot},
		{name: "wrong version", doc: "version: 9\n", wantErr: domain.ErrInvalidSnapshot},
		{
			name: "duplicate task",
			doc: `version: 1
tasks:
  - {id: a, title: One, status: todo, priority: low, boardType: kanban}
  - {id: a, title: Two, status: todo, priority: low, boardType: kanban}
`,
			wantErr: domain.ErrDuplicateTaskID,
		},
		{
			name: "completed sprint in open list",
			doc: `version: 1
sprints:
  - {id: s, name: S, status: completed}
`,
			wantErr: domain.ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addTask(t, domain.Task{Title: "keep me"})

			_, err := NewImportState(f.tasks, f.sprints).Execute(context.Background(), ImportStateInput{R: strings.NewReader(tt.doc)})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, f.tasks.List(), 1)
		})
	}
}
