package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/taskflow/internal/domain"
)

// TaskStore is the ordered in-memory task collection.
// It trusts caller-supplied IDs and does not maintain sprint task lists;
// invariant-preserving combinations live in the usecase package.
type TaskStore struct {
	kv     domain.KVStore
	clock  domain.Clock
	logger domain.Logger
	tasks  []*domain.Task
	mu     sync.Mutex
}

// NewTaskStore creates an empty TaskStore. Call Load to read persisted tasks.
func NewTaskStore(kv domain.KVStore, clock domain.Clock, logger domain.Logger) *TaskStore {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &TaskStore{
		kv:     kv,
		clock:  clock,
		logger: logger,
	}
}

// Load reads the task collection, migrates records missing newer fields and,
// if anything was migrated, writes the collection straight back.
// It returns the number of migrated records.
// Records that cannot be decoded are skipped; a collection that is not a
// JSON array is replaced by an empty one. In both cases the unreadable data
// is first copied to a backup key so the write-back does not lose it.
func (s *TaskStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil

	data, ok, err := s.kv.Get(domain.KeyTasks)
	if err != nil {
		return 0, degrade(s.logger, domain.KeyTasks, fmt.Errorf("load %s: %w", domain.KeyTasks, err))
	}
	if !ok || len(data) == 0 {
		return 0, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		if _, qerr := quarantine(s.kv, s.clock, s.logger, domain.KeyTasks, data); qerr != nil {
			return 0, qerr
		}
		return 0, degrade(s.logger, domain.KeyTasks, fmt.Errorf("decode %s: %w", domain.KeyTasks, err))
	}

	tasks, migrated, rejected := migrateTasks(records, s.logger)
	if len(rejected) > 0 {
		blob, err := json.Marshal(rejected)
		if err != nil {
			return 0, fmt.Errorf("encode rejected %s: %w", domain.KeyTasks, err)
		}
		if _, err := quarantine(s.kv, s.clock, s.logger, domain.KeyTasks, blob); err != nil {
			return 0, err
		}
	}
	s.tasks = tasks

	if migrated > 0 || len(rejected) > 0 {
		s.logger.Info("", "migrate", fmt.Sprintf("filled defaults on %d task(s), skipped %d", migrated, len(rejected)))
		if err := s.persist(); err != nil {
			return migrated, err
		}
	}
	return migrated, nil
}

// Get returns a copy of the task with id, or nil if not found.
func (s *TaskStore) Get(id string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.find(id); t != nil {
		return t.Clone()
	}
	return nil
}

// List returns copies of all tasks in insertion order.
func (s *TaskStore) List() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// AddTask appends task after filling defaults: story points 0, no sprint,
// empty acceptance criteria, kanban board and the current time as creation time.
func (s *TaskStore) AddTask(task domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Clone()
	if t.SprintID != nil && *t.SprintID == "" {
		t.SprintID = nil
	}
	if t.AcceptanceCriteria == nil {
		t.AcceptanceCriteria = []string{}
	}
	if t.BoardType == "" {
		t.BoardType = domain.BoardKanban
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.clock.Now()
	}
	if t.Status == domain.StatusDone && t.CompletedAt == nil {
		now := s.clock.Now()
		t.CompletedAt = &now
	}

	s.tasks = append(s.tasks, t)
	s.logger.Info(t.ID, "task", fmt.Sprintf("created: %q", t.Title))
	return t.Clone(), s.persist()
}

// UpdateTask merges patch into the task with patch.ID.
// Returns false without writing if the task does not exist.
func (s *TaskStore) UpdateTask(patch domain.TaskPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.apply(patch) {
		return false, nil
	}
	return true, s.persist()
}

// DeleteTask removes the task with id.
// Sprint task lists still referencing the id are left untouched.
func (s *TaskStore) DeleteTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *domain.Task) bool { return t.ID == id })
	if len(s.tasks) == n {
		return false, nil
	}
	s.logger.Info(id, "task", "deleted")
	return true, s.persist()
}

// UpdateTaskStatus sets the status of a task.
// Moving to done stamps the update and completion times; moving away clears
// the completion time.
func (s *TaskStore) UpdateTaskStatus(id string, status domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return false, nil
	}
	s.setStatus(t, status)
	s.logger.Info(id, "task", "status: "+string(status))
	return true, s.persist()
}

// BulkUpdateTasks applies each patch in order, skipping unknown IDs, and
// writes once at the end. It returns the number of patches applied.
func (s *TaskStore) BulkUpdateTasks(patches []domain.TaskPatch) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, p := range patches {
		if s.apply(p) {
			applied++
		}
	}
	if applied == 0 {
		return 0, nil
	}
	return applied, s.persist()
}

// UpdateStoryPoints sets the story points of a task.
func (s *TaskStore) UpdateStoryPoints(id string, points int) (bool, error) {
	return s.mutate(id, func(t *domain.Task) { t.StoryPoints = points })
}

// AssignToSprint sets the sprint reference of a task.
// The sprint's own task list is not touched.
func (s *TaskStore) AssignToSprint(taskID, sprintID string) (bool, error) {
	return s.mutate(taskID, func(t *domain.Task) {
		ref := sprintID
		t.SprintID = &ref
	})
}

// RemoveFromSprint clears the sprint reference of a task.
func (s *TaskStore) RemoveFromSprint(taskID string) (bool, error) {
	return s.mutate(taskID, func(t *domain.Task) { t.SprintID = nil })
}

// ClearSprint clears the sprint reference on every task pointing at sprintID
// and returns the affected task IDs.
func (s *TaskStore) ClearSprint(sprintID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, t := range s.tasks {
		if t.SprintID != nil && *t.SprintID == sprintID {
			t.SprintID = nil
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, s.persist()
}

// UpdateAcceptanceCriteria replaces the acceptance criteria of a task.
func (s *TaskStore) UpdateAcceptanceCriteria(taskID string, criteria []string) (bool, error) {
	return s.mutate(taskID, func(t *domain.Task) {
		t.AcceptanceCriteria = append([]string{}, criteria...)
	})
}

// ReplaceAll swaps the whole collection, e.g. when importing a backup.
func (s *TaskStore) ReplaceAll(tasks []*domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		c := t.Clone()
		if c.AcceptanceCriteria == nil {
			c.AcceptanceCriteria = []string{}
		}
		if c.BoardType == "" {
			c.BoardType = domain.BoardKanban
		}
		s.tasks = append(s.tasks, c)
	}
	return s.persist()
}

// mutate runs fn on the task with id and persists.
func (s *TaskStore) mutate(id string, fn func(*domain.Task)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(id)
	if t == nil {
		return false, nil
	}
	fn(t)
	return true, s.persist()
}

// apply merges a patch without persisting. Caller holds the lock.
func (s *TaskStore) apply(p domain.TaskPatch) bool {
	t := s.find(p.ID)
	if t == nil {
		return false
	}
	status := p.Status
	p.Status = nil
	p.Apply(t)
	if status != nil {
		s.setStatus(t, *status)
	}
	now := s.clock.Now()
	t.UpdatedAt = &now
	return true
}

func (s *TaskStore) setStatus(t *domain.Task, status domain.Status) {
	if status != domain.StatusDone {
		t.CompletedAt = nil
		t.Status = status
		return
	}
	now := s.clock.Now()
	t.UpdatedAt = &now
	if t.Status != domain.StatusDone || t.CompletedAt == nil {
		completed := now
		t.CompletedAt = &completed
	}
	t.Status = status
}

func (s *TaskStore) find(id string) *domain.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// persist writes the whole collection. Caller holds the lock.
// The in-memory change is kept even if the write fails.
func (s *TaskStore) persist() error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	if err := saveJSON(s.kv, domain.KeyTasks, tasks); err != nil {
		s.logger.Error("", "store", err.Error())
		return err
	}
	return nil
}
