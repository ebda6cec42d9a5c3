package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// NewSprint contains the fields of a sprint to create.
type NewSprint struct {
	StartDate time.Time
	EndDate   time.Time
	Name      string
	Goal      string
	Capacity  int
}

// CompleteSprint contains the parameters for completing a sprint.
// Velocity takes precedence over CompletedStoryPoints when set.
type CompleteSprint struct {
	Velocity             *int
	ID                   string
	Retrospective        string
	CompletedStoryPoints int
}

// SprintStore holds planned and active sprints, completed sprint history and
// the single active-sprint reference.
type SprintStore struct {
	kv      domain.KVStore
	clock   domain.Clock
	ids     domain.IDGenerator
	logger  domain.Logger
	sprints []*domain.Sprint
	history []*domain.Sprint
	active  string
	mu      sync.Mutex
}

// NewSprintStore creates an empty SprintStore. Call Load to read persisted sprints.
func NewSprintStore(kv domain.KVStore, clock domain.Clock, ids domain.IDGenerator, logger domain.Logger) *SprintStore {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &SprintStore{
		kv:     kv,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Load reads sprints, history and the active reference.
// Data left by older versions with several active sprints is repaired: only
// the referenced sprint stays active. Unreadable sprint records are skipped
// after being copied to a backup key.
func (s *SprintStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sprints, s.history, s.active = nil, nil, ""

	sprints, sprintsChanged, err := s.loadSprints(domain.KeySprints)
	if err != nil {
		return err
	}
	history, historyChanged, err := s.loadSprints(domain.KeySprintHistory)
	if err != nil {
		return err
	}
	s.sprints, s.history = sprints, history

	var active *string
	if _, err := loadJSON(s.kv, domain.KeyActiveSprint, &active); err != nil {
		if err := degrade(s.logger, domain.KeyActiveSprint, err); err != nil {
			return err
		}
	}
	if active != nil {
		s.active = *active
	}

	if s.repairActive() || sprintsChanged || historyChanged {
		return s.persistAll()
	}
	return nil
}

// loadSprints reads one sprint collection record by record.
// changed reports whether the collection needs writing back.
// Caller holds the lock.
func (s *SprintStore) loadSprints(key string) ([]*domain.Sprint, bool, error) {
	data, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, false, degrade(s.logger, key, fmt.Errorf("load %s: %w", key, err))
	}
	if !ok || len(data) == 0 {
		return nil, false, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		if _, qerr := quarantine(s.kv, s.clock, s.logger, key, data); qerr != nil {
			return nil, false, qerr
		}
		return nil, false, degrade(s.logger, key, fmt.Errorf("decode %s: %w", key, err))
	}

	out := make([]*domain.Sprint, 0, len(records))
	var rejected []json.RawMessage
	changed := false
	for i, rec := range records {
		sp, c, err := migrateSprint(rec)
		if err != nil {
			s.logger.Warn(recordID(rec), "migrate", fmt.Sprintf("skipping unreadable %s record %d: %v", key, i, err))
			rejected = append(rejected, rec)
			continue
		}
		changed = changed || c
		out = append(out, sp)
	}

	if len(rejected) > 0 {
		blob, err := json.Marshal(rejected)
		if err != nil {
			return nil, false, fmt.Errorf("encode rejected %s: %w", key, err)
		}
		if _, err := quarantine(s.kv, s.clock, s.logger, key, blob); err != nil {
			return nil, false, err
		}
		changed = true
	}
	return out, changed, nil
}

// repairActive enforces the single-active invariant on loaded data.
// Caller holds the lock.
func (s *SprintStore) repairActive() bool {
	repaired := false
	if s.active != "" {
		if sp := s.find(s.active); sp == nil || sp.Status != domain.SprintActive {
			s.logger.Warn(s.active, "sprint", "active reference points at no active sprint; cleared")
			s.active = ""
			repaired = true
		}
	}
	for _, sp := range s.sprints {
		if sp.Status != domain.SprintActive || sp.ID == s.active {
			continue
		}
		if s.active == "" {
			s.active = sp.ID
		} else {
			s.logger.Warn(sp.ID, "sprint", "second active sprint demoted to planned")
			sp.Status = domain.SprintPlanned
		}
		repaired = true
	}
	return repaired
}

// Get returns a copy of the sprint with id, searching history too.
func (s *SprintStore) Get(id string) *domain.Sprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp := s.find(id); sp != nil {
		return sp.Clone()
	}
	for _, sp := range s.history {
		if sp.ID == id {
			return sp.Clone()
		}
	}
	return nil
}

// List returns copies of the planned and active sprints in creation order.
func (s *SprintStore) List() []*domain.Sprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSprints(s.sprints)
}

// History returns copies of the completed sprints in completion order.
func (s *SprintStore) History() []*domain.Sprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSprints(s.history)
}

// ActiveSprintID returns the active sprint reference, or "" if none.
func (s *SprintStore) ActiveSprintID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CreateSprint adds a planned sprint with a new ID, no tasks and zero velocity.
func (s *SprintStore) CreateSprint(in NewSprint) (*domain.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := &domain.Sprint{
		ID:        s.ids.NewID(),
		Name:      in.Name,
		Goal:      in.Goal,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    domain.SprintPlanned,
		Tasks:     []string{},
		Capacity:  max(in.Capacity, 0),
		CreatedAt: s.clock.Now(),
	}
	s.sprints = append(s.sprints, sp)
	s.logger.Info(sp.ID, "sprint", fmt.Sprintf("created: %q", sp.Name))
	return sp.Clone(), s.persistSprints()
}

// UpdateSprint merges patch into a planned or active sprint.
func (s *SprintStore) UpdateSprint(id string, patch domain.SprintPatch) (bool, error) {
	return s.mutate(id, func(sp *domain.Sprint) { patch.Apply(sp) })
}

// StartSprint activates a planned sprint. A sprint that is already active is
// demoted back to planned first, so at most one sprint is ever active.
func (s *SprintStore) StartSprint(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.find(id)
	if sp == nil {
		if s.inHistory(id) {
			return domain.ErrSprintCompleted
		}
		return domain.ErrSprintNotFound
	}
	if !sp.Status.CanTransitionTo(domain.SprintActive) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sp.Status, domain.SprintActive)
	}

	for _, other := range s.sprints {
		if other.Status == domain.SprintActive {
			other.Status = domain.SprintPlanned
			s.logger.Info(other.ID, "sprint", "demoted to planned")
		}
	}
	sp.Status = domain.SprintActive
	s.active = id
	s.logger.Info(id, "sprint", "started")

	if err := s.persistSprints(); err != nil {
		return err
	}
	return s.persistActive()
}

// CompleteSprint marks an active sprint completed, records its velocity and
// retrospective, and moves it into history.
func (s *SprintStore) CompleteSprint(in CompleteSprint) (*domain.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.find(in.ID)
	if sp == nil {
		if s.inHistory(in.ID) {
			return nil, domain.ErrSprintCompleted
		}
		return nil, domain.ErrSprintNotFound
	}
	if !sp.Status.CanTransitionTo(domain.SprintCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sp.Status, domain.SprintCompleted)
	}

	sp.Status = domain.SprintCompleted
	if in.Velocity != nil {
		sp.Velocity = *in.Velocity
	} else {
		sp.Velocity = in.CompletedStoryPoints
	}
	if in.Retrospective != "" {
		sp.Retrospective = in.Retrospective
	}

	s.history = append(s.history, sp)
	s.sprints = slices.DeleteFunc(s.sprints, func(x *domain.Sprint) bool { return x.ID == in.ID })
	if s.active == in.ID {
		s.active = ""
	}
	s.logger.Info(sp.ID, "sprint", fmt.Sprintf("completed with velocity %d", sp.Velocity))

	return sp.Clone(), s.persistAll()
}

// AddTaskToSprint appends taskID to the sprint's task list unless present.
// The task's own sprint reference is not touched.
func (s *SprintStore) AddTaskToSprint(sprintID, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.find(sprintID)
	if sp == nil {
		return false, nil
	}
	if sp.HasTask(taskID) {
		return true, nil
	}
	sp.Tasks = append(sp.Tasks, taskID)
	return true, s.persistSprints()
}

// RemoveTaskFromSprint removes taskID from the sprint's task list.
func (s *SprintStore) RemoveTaskFromSprint(sprintID, taskID string) (bool, error) {
	return s.mutate(sprintID, func(sp *domain.Sprint) {
		sp.Tasks = slices.DeleteFunc(sp.Tasks, func(id string) bool { return id == taskID })
	})
}

// RemoveTaskEverywhere drops taskID from every planned or active sprint.
func (s *SprintStore) RemoveTaskEverywhere(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, sp := range s.sprints {
		if sp.HasTask(taskID) {
			sp.Tasks = slices.DeleteFunc(sp.Tasks, func(id string) bool { return id == taskID })
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persistSprints()
}

// UpdateVelocity sets the recorded velocity of a sprint.
func (s *SprintStore) UpdateVelocity(id string, velocity int) (bool, error) {
	return s.mutate(id, func(sp *domain.Sprint) { sp.Velocity = velocity })
}

// DeleteSprint removes a planned or active sprint and clears the active
// reference if it pointed at it. Task references are left untouched.
func (s *SprintStore) DeleteSprint(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sprints)
	s.sprints = slices.DeleteFunc(s.sprints, func(sp *domain.Sprint) bool { return sp.ID == id })
	if len(s.sprints) == n {
		return false, nil
	}
	s.logger.Info(id, "sprint", "deleted")

	if err := s.persistSprints(); err != nil {
		return true, err
	}
	if s.active == id {
		s.active = ""
		return true, s.persistActive()
	}
	return true, nil
}

// ReplaceAll swaps every collection, e.g. when importing a backup.
func (s *SprintStore) ReplaceAll(sprints, history []*domain.Sprint, active string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sprints = cloneSprints(sprints)
	s.history = cloneSprints(history)
	s.active = active
	s.repairActive()
	return s.persistAll()
}

func (s *SprintStore) mutate(id string, fn func(*domain.Sprint)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.find(id)
	if sp == nil {
		return false, nil
	}
	fn(sp)
	return true, s.persistSprints()
}

func (s *SprintStore) find(id string) *domain.Sprint {
	for _, sp := range s.sprints {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (s *SprintStore) inHistory(id string) bool {
	return slices.ContainsFunc(s.history, func(sp *domain.Sprint) bool { return sp.ID == id })
}

func (s *SprintStore) persistSprints() error {
	return s.save(domain.KeySprints, nonNil(s.sprints))
}

func (s *SprintStore) persistHistory() error {
	return s.save(domain.KeySprintHistory, nonNil(s.history))
}

func (s *SprintStore) persistActive() error {
	var ref *string
	if s.active != "" {
		ref = &s.active
	}
	return s.save(domain.KeyActiveSprint, ref)
}

func (s *SprintStore) persistAll() error {
	if err := s.persistSprints(); err != nil {
		return err
	}
	if err := s.persistHistory(); err != nil {
		return err
	}
	return s.persistActive()
}

func (s *SprintStore) save(key string, v any) error {
	if err := saveJSON(s.kv, key, v); err != nil {
		s.logger.Error("", "store", err.Error())
		return err
	}
	return nil
}

func nonNil(sprints []*domain.Sprint) []*domain.Sprint {
	if sprints == nil {
		return []*domain.Sprint{}
	}
	return sprints
}

func cloneSprints(sprints []*domain.Sprint) []*domain.Sprint {
	out := make([]*domain.Sprint, 0, len(sprints))
	for _, sp := range sprints {
		out = append(out, sp.Clone())
	}
	return out
}
