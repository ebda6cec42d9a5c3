package domain

import (
	"context"
	"time"
)

// KVStore persists whole JSON documents under string keys.
// There are no partial updates: every Put replaces the stored value.
type KVStore interface {
	// Get returns the raw value for key. ok is false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	// Returns true if the store was newly created.
	Initialize() (bool, error)

	// IsInitialized checks if the store exists.
	IsInitialized() bool
}

// Storage keys.
const (
	KeyTasks         = "tasks"
	KeySprints       = "sprints"
	KeySprintHistory = "sprintHistory"
	KeyActiveSprint  = "activeSprint"
)

// Logger writes categorized log entries.
// entity is a task or sprint ID; empty means a global entry.
type Logger interface {
	Debug(entity, category, msg string)
	Info(entity, category, msg string)
	Warn(entity, category, msg string)
	Error(entity, category, msg string)
}

// NopLogger discards all entries.
type NopLogger struct{}

func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// ChatRole tags a chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one message of a chat-completion request.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest is a chat-completion request.
type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
}

// ChatCompleter sends a chat-completion request and returns the reply text.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetInfo returns the locations of the config files.
	GetInfo() ConfigInfo

	// InitProjectConfig writes the default template to the project config file.
	InitProjectConfig() error

	// InitGlobalConfig writes the default template to the global config file.
	InitGlobalConfig() error
}

// ConfigInfo describes the config files.
type ConfigInfo struct {
	ProjectPath   string
	GlobalPath    string
	ProjectExists bool
	GlobalExists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces unique identifiers for new records.
type IDGenerator interface {
	NewID() string
}
