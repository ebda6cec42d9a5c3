package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/state"
)

// ImportStateInput contains the parameters for importing.
type ImportStateInput struct {
	R io.Reader // Source of the YAML document
}

// ImportStateOutput contains import counts.
type ImportStateOutput struct {
	Tasks   int
	Sprints int
}

// ImportState replaces every task and sprint with a YAML snapshot.
type ImportState struct {
	tasks   *state.TaskStore
	sprints *state.SprintStore
}

// NewImportState creates a new ImportState use case.
func NewImportState(tasks *state.TaskStore, sprints *state.SprintStore) *ImportState {
	return &ImportState{tasks: tasks, sprints: sprints}
}

// Execute validates the snapshot and swaps it in. Nothing is written when
// validation fails.
func (uc *ImportState) Execute(_ context.Context, in ImportStateInput) (*ImportStateOutput, error) {
	dec := yaml.NewDecoder(in.R)
	dec.KnownFields(true)

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidSnapshot)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, err)
	}
	if err := validateSnapshot(&snap); err != nil {
		return nil, err
	}

	if err := uc.tasks.ReplaceAll(snap.Tasks); err != nil {
		return nil, fmt.Errorf("replace tasks: %w", err)
	}
	if err := uc.sprints.ReplaceAll(snap.Sprints, snap.History, snap.ActiveSprint); err != nil {
		return nil, fmt.Errorf("replace sprints: %w", err)
	}
	return &ImportStateOutput{Tasks: len(snap.Tasks), Sprints: len(snap.Sprints) + len(snap.History)}, nil
}

func validateSnapshot(snap *Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidSnapshot, snap.Version)
	}

	seen := make(map[string]bool, len(snap.Tasks))
	for i, t := range snap.Tasks {
		if t == nil || t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", domain.ErrInvalidSnapshot, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTaskID, t.ID)
		}
		seen[t.ID] = true
		if t.BoardType == "" {
			t.BoardType = domain.BoardKanban
		}
		if t.Title == "" {
			return fmt.Errorf("%w: task %s: %w", domain.ErrInvalidSnapshot, t.ID, domain.ErrEmptyTitle)
		}
		if !t.Status.IsValid() || !t.Priority.IsValid() || !t.BoardType.IsValid() {
			return fmt.Errorf("%w: task %s has an invalid status, priority or board", domain.ErrInvalidSnapshot, t.ID)
		}
	}

	sprintIDs := make(map[string]bool)
	for _, list := range [][]*domain.Sprint{snap.Sprints, snap.History} {
		for i, sp := range list {
			if sp == nil || sp.ID == "" {
				return fmt.Errorf("%w: sprint %d has no id", domain.ErrInvalidSnapshot, i)
			}
			if sprintIDs[sp.ID] {
				return fmt.Errorf("%w: duplicate sprint id %s", domain.ErrInvalidSnapshot, sp.ID)
			}
			sprintIDs[sp.ID] = true
			if !sp.Status.IsValid() {
				return fmt.Errorf("%w: sprint %s has status %q", domain.ErrInvalidSnapshot, sp.ID, sp.Status)
			}
		}
	}
	for _, sp := range snap.History {
		if sp.Status != domain.SprintCompleted {
			return fmt.Errorf("%w: history sprint %s is %s", domain.ErrInvalidSnapshot, sp.ID, sp.Status)
		}
	}
	for _, sp := range snap.Sprints {
		if sp.Status == domain.SprintCompleted {
			return fmt.Errorf("%w: open sprint %s is completed", domain.ErrInvalidSnapshot, sp.ID)
		}
	}
	return nil
}
