package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings  []string        `toml:"-"`
	Storage   StorageConfig   `toml:"storage"`
	AI        AIConfig        `toml:"ai"`
	Board     BoardConfig     `toml:"board"`
	Log       LogConfig       `toml:"log"`
	Analytics AnalyticsConfig `toml:"analytics"`
}

// StorageConfig holds settings from the [storage] section.
type StorageConfig struct {
	Backend   string `toml:"backend,omitempty"`    // "json" (default) or "redis"
	RedisAddr string `toml:"redis_addr,omitempty"` // Redis address for the redis backend
	Namespace string `toml:"namespace,omitempty"`  // Key prefix for the redis backend
	RedisDB   int    `toml:"redis_db,omitempty"`   // Redis database number
}

// AIConfig holds settings from the [ai] section.
// API keys are never read from files; they come from the environment.
type AIConfig struct {
	Provider  string        `toml:"provider,omitempty"` // "openrouter" or "groq" (empty = first with a key)
	Model     string        `toml:"model,omitempty"`    // Model identifier (empty = provider default)
	BaseURL   string        `toml:"base_url,omitempty"` // Override the provider endpoint
	APIKey    string        `toml:"-"`                  // Resolved from the environment
	Timeout   time.Duration `toml:"timeout,omitempty"`  // Request timeout
	MaxTokens int           `toml:"max_tokens,omitempty"`
}

// BoardConfig holds settings from the [board] section.
type BoardConfig struct {
	Default BoardType `toml:"default,omitempty"` // Board type for new tasks and the TUI
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// AnalyticsConfig holds settings from the [analytics] section.
type AnalyticsConfig struct {
	TrendDays int `toml:"trend_days,omitempty"` // Width of the completion trend window
}

// Default configuration values.
const (
	DefaultStoreBackend = "json"
	DefaultNamespace    = "taskflow"
	DefaultLogLevel     = "info"
	DefaultTrendDays    = 7
	DefaultAITimeout    = 30 * time.Second
	DefaultMaxTokens    = 1024
)

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   DefaultStoreBackend,
			Namespace: DefaultNamespace,
		},
		AI: AIConfig{
			Timeout:   DefaultAITimeout,
			MaxTokens: DefaultMaxTokens,
		},
		Board: BoardConfig{
			Default: BoardKanban,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Analytics: AnalyticsConfig{
			TrendDays: DefaultTrendDays,
		},
	}
}

// RenderConfigTemplate renders the commented config template with the values of cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
