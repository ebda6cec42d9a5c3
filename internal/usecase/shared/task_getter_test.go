package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

type stubTasks []*domain.Task

func (s stubTasks) List() []*domain.Task { return s }

type stubSprints struct {
	open    []*domain.Sprint
	history []*domain.Sprint
}

func (s stubSprints) List() []*domain.Sprint    { return s.open }
func (s stubSprints) History() []*domain.Sprint { return s.history }

func TestGetTask(t *testing.T) {
	tasks := stubTasks{
		{ID: "3f2a9c10-aaaa", Title: "Login"},
		{ID: "3f2b0000-bbbb", Title: "Logout"},
		{ID: "3f2", Title: "Short"},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "exact match wins over prefix", ref: "3f2", want: "Short"},
		{name: "unique prefix", ref: "3f2a", want: "Login"},
		{name: "full id", ref: "3f2b0000-bbbb", want: "Logout"},
		{name: "ambiguous prefix", ref: "3f", wantErr: domain.ErrAmbiguousID},
		{name: "unknown", ref: "zz", wantErr: domain.ErrTaskNotFound},
		{name: "empty", ref: "  ", wantErr: domain.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetTask(tasks, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestGetSprint_SearchesHistory(t *testing.T) {
	sprints := stubSprints{
		open:    []*domain.Sprint{{ID: "s-1", Name: "Open"}},
		history: []*domain.Sprint{{ID: "s-2", Name: "Done"}},
	}

	got, err := GetSprint(sprints, "s-2")
	require.NoError(t, err)
	assert.Equal(t, "Done", got.Name)

	_, err = GetSprint(sprints, "s-")
	assert.ErrorIs(t, err, domain.ErrAmbiguousID)

	_, err = GetSprint(sprints, "x")
	assert.ErrorIs(t, err, domain.ErrSprintNotFound)
}
