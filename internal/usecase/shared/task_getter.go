// Package shared provides shared utilities for use cases.
package shared

import (
	"slices"
	"strings"

	"github.com/runoshun/taskflow/internal/domain"
)

// TaskLister lists the tasks of a store.
type TaskLister interface {
	List() []*domain.Task
}

// SprintLister lists open and completed sprints.
type SprintLister interface {
	List() []*domain.Sprint
	History() []*domain.Sprint
}

// GetTask resolves ref to a task. ref is either a full ID or an unambiguous
// ID prefix. Returns domain.ErrTaskNotFound or domain.ErrAmbiguousID.
func GetTask(tasks TaskLister, ref string) (*domain.Task, error) {
	return resolve(tasks.List(), ref, func(t *domain.Task) string { return t.ID }, domain.ErrTaskNotFound)
}

// GetSprint resolves ref to an open or completed sprint the same way GetTask
// resolves tasks. Open sprints come first when both match.
func GetSprint(sprints SprintLister, ref string) (*domain.Sprint, error) {
	all := slices.Concat(sprints.List(), sprints.History())
	return resolve(all, ref, func(s *domain.Sprint) string { return s.ID }, domain.ErrSprintNotFound)
}

func resolve[T any](items []T, ref string, id func(T) string, notFound error) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, notFound
	}

	var match T
	matches := 0
	for _, item := range items {
		switch {
		case id(item) == ref:
			return item, nil
		case strings.HasPrefix(id(item), ref):
			match = item
			matches++
		}
	}

	switch matches {
	case 0:
		return zero, notFound
	case 1:
		return match, nil
	default:
		return zero, domain.ErrAmbiguousID
	}
}
