package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// SnapshotVersion is the format version written by ExportState.
const SnapshotVersion = 1

// Snapshot is the YAML backup of the whole board.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	ExportedAt   time.Time        `yaml:"exportedAt"`
	ActiveSprint string           `yaml:"activeSprint,omitempty"`
	Tasks        []*domain.Task   `yaml:"tasks"`
	Sprints      []*domain.Sprint `yaml:"sprints"`
	History      []*domain.Sprint `yaml:"sprintHistory"`
	Version      int              `yaml:"version"`
}

// ExportStateInput contains the parameters for exporting.
type ExportStateInput struct {
	W io.Writer // Destination of the YAML document
}

// ExportStateOutput contains export counts.
type ExportStateOutput struct {
	Tasks   int
	Sprints int
}

// ExportState writes every task and sprint as a YAML snapshot.
type ExportState struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
	clock   domain.Clock
}

// NewExportState creates a new ExportState use case.
func NewExportState(tasks *state.TaskStore, sprints *state.SprintStore, clock domain.Clock) *ExportState {
	return &ExportState{tasks: tasks, sprints: sprints, clock: clock}
}

// Execute writes the snapshot.
func (uc *ExportState) Execute(_ context.Context, in ExportStateInput) (*ExportStateOutput, error) {
	snap := Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   uc.clock.Now(),
		Tasks:        uc.tasks.List(),
		Sprints:      uc.sprints.List(),
		History:      uc.sprints.History(),
		ActiveSprint: uc.sprints.ActiveSprintID(),
	}

	enc := yaml.NewEncoder(in.W)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return &ExportStateOutput{Tasks: len(snap.Tasks), Sprints: len(snap.Sprints) + len(snap.History)}, nil
}
