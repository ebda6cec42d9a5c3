// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MemoryKV is an in-memory domain.KVStore.
// Fields are ordered to minimize memory padding.
type MemoryKV struct {
	Values  map[string][]byte
	GetErr  error
	PutErr  error
	Puts    []string // Keys in write order
	mu      sync.Mutex
	Missing bool // Behave like an uninitialized store
}

// NewMemoryKV creates an empty, initialized MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{Values: make(map[string][]byte)}
}

// Get returns the stored value.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Missing {
		return nil, false, domain.ErrNotInitialized
	}
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Values[key]
	return slices.Clone(v), ok, nil
}

// Put stores a copy of value.
func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Missing {
		return domain.ErrNotInitialized
	}
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Values[key] = slices.Clone(value)
	m.Puts = append(m.Puts, key)
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Values, key)
	return nil
}

// Raw returns the stored value as a string, or "" if absent.
func (m *MemoryKV) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.Values[key])
}

// Snapshot returns a copy of every stored value.
func (m *MemoryKV) Snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.Values)
}

var _ domain.KVStore = (*MemoryKV)(nil)

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store initialized.
func (m *MockStoreInitializer) Initialize() (bool, error) {
	if m.InitErr != nil {
		return false, m.InitErr
	}
	if m.Initialized {
		return false, nil
	}
	m.Initialized = true
	return true, nil
}

// IsInitialized returns the configured state.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

var _ domain.StoreInitializer = (*MockStoreInitializer)(nil)

// SequenceIDs is a deterministic domain.IDGenerator producing prefix-1, prefix-2, ...
type SequenceIDs struct {
	Prefix string
	n      int
}

// NewID returns the next ID in the sequence.
func (g *SequenceIDs) NewID() string {
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

var _ domain.IDGenerator = (*SequenceIDs)(nil)

// MockChatCompleter is a test double for domain.ChatCompleter.
// Replies are returned in order; the last one repeats.
type MockChatCompleter struct {
	Err       error
	Block     chan struct{} // If set, Complete waits for it to close
	Replies   []string
	Requests  []domain.ChatRequest
	mu        sync.Mutex
	callCount int
}

// Complete records the request and returns the next reply.
func (m *MockChatCompleter) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	idx := m.callCount
	m.callCount++
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	return m.Replies[min(idx, len(m.Replies)-1)], nil
}

// Calls returns the number of Complete calls.
func (m *MockChatCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request.
func (m *MockChatCompleter) LastRequest() domain.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return domain.ChatRequest{}
	}
	return m.Requests[len(m.Requests)-1]
}

var _ domain.ChatCompleter = (*MockChatCompleter)(nil)

// LogEntry is one entry captured by RecordingLogger.
type LogEntry struct {
	Level    string
	Entity   string
	Category string
	Msg      string
}

// RecordingLogger is a domain.Logger that keeps every entry in memory.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) Debug(entity, category, msg string) { l.add("debug", entity, category, msg) }
func (l *RecordingLogger) Info(entity, category, msg string)  { l.add("info", entity, category, msg) }
func (l *RecordingLogger) Warn(entity, category, msg string)  { l.add("warn", entity, category, msg) }
func (l *RecordingLogger) Error(entity, category, msg string) { l.add("error", entity, category, msg) }

func (l *RecordingLogger) add(level, entity, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Entity: entity, Category: category, Msg: msg})
}

// Count returns the number of entries with the given level.
func (l *RecordingLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

var _ domain.Logger = (*RecordingLogger)(nil)

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr          error
	Info             domain.ConfigInfo
	InitCalled       bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		Info: domain.ConfigInfo{
			ProjectPath: "/test/.taskflow/config.toml",
			GlobalPath:  "/home/test/.config/taskflow/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetInfo returns the configured info.
func (m *MockConfigManager) GetInfo() domain.ConfigInfo {
	return m.Info
}

// InitProjectConfig records the call and returns the configured error.
func (m *MockConfigManager) InitProjectConfig() error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Info.ProjectExists = true
	return nil
}

// InitGlobalConfig records the call and returns the configured error.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Info.GlobalExists = true
	return nil
}
