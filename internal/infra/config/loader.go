// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/taskflow/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv        func(string) string
	dataDir       string // Path to the .taskflow directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskflow)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory and environment. This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		getenv:        getenv,
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalDir(configHome)
}

// Load returns the merged configuration (project + global).
// Project config takes precedence over global config; API keys come from
// the environment.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.loadFile(domain.ProjectConfigPath(l.dataDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- project (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}

	l.applyEnv(base)
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// applyEnv resolves the API key of the configured provider, or of the first
// provider with a key when none is configured.
func (l *Loader) applyEnv(cfg *domain.Config) {
	keys := map[string]string{
		"openrouter": l.getenv("OPENROUTER_API_KEY"),
		"groq":       l.getenv("GROQ_API_KEY"),
	}
	if cfg.AI.Provider != "" {
		cfg.AI.APIKey = keys[cfg.AI.Provider]
		return
	}
	for _, name := range []string{"openrouter", "groq"} {
		if keys[name] != "" {
			cfg.AI.Provider = name
			cfg.AI.APIKey = keys[name]
			return
		}
	}
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	warn := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}
	invalid := func(section, key string, v any) {
		warnings = append(warnings, fmt.Sprintf("invalid value for %s.%s: %v", section, key, v))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "storage":
			for k, v := range m {
				switch k {
				case "backend":
					if s, ok := v.(string); ok {
						res.Storage.Backend = s
					}
				case "redis_addr":
					if s, ok := v.(string); ok {
						res.Storage.RedisAddr = s
					}
				case "redis_db":
					if n, ok := v.(int64); ok {
						res.Storage.RedisDB = int(n)
					}
				case "namespace":
					if s, ok := v.(string); ok {
						res.Storage.Namespace = s
					}
				default:
					warn(section, k)
				}
			}
		case "ai":
			for k, v := range m {
				switch k {
				case "provider":
					if s, ok := v.(string); ok {
						res.AI.Provider = s
					}
				case "model":
					if s, ok := v.(string); ok {
						res.AI.Model = s
					}
				case "base_url":
					if s, ok := v.(string); ok {
						res.AI.BaseURL = s
					}
				case "timeout":
					s, _ := v.(string)
					d, err := time.ParseDuration(s)
					if err != nil || d <= 0 {
						invalid(section, k, v)
						continue
					}
					res.AI.Timeout = d
				case "max_tokens":
					if n, ok := v.(int64); ok && n > 0 {
						res.AI.MaxTokens = int(n)
					} else {
						invalid(section, k, v)
					}
				default:
					warn(section, k)
				}
			}
		case "board":
			for k, v := range m {
				switch k {
				case "default":
					s, _ := v.(string)
					if b := domain.BoardType(s); b.IsValid() {
						res.Board.Default = b
					} else {
						invalid(section, k, v)
					}
				default:
					warn(section, k)
				}
			}
		case "analytics":
			for k, v := range m {
				switch k {
				case "trend_days":
					if n, ok := v.(int64); ok && n > 0 {
						res.Analytics.TrendDays = int(n)
					} else {
						invalid(section, k, v)
					}
				default:
					warn(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					}
				default:
					warn(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = nil
	if len(base.Warnings)+len(override.Warnings) > 0 {
		result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)
	}

	if override.Storage.Backend != "" {
		result.Storage.Backend = override.Storage.Backend
	}
	if override.Storage.RedisAddr != "" {
		result.Storage.RedisAddr = override.Storage.RedisAddr
	}
	if override.Storage.RedisDB != 0 {
		result.Storage.RedisDB = override.Storage.RedisDB
	}
	if override.Storage.Namespace != "" {
		result.Storage.Namespace = override.Storage.Namespace
	}
	if override.AI.Provider != "" {
		result.AI.Provider = override.AI.Provider
	}
	if override.AI.Model != "" {
		result.AI.Model = override.AI.Model
	}
	if override.AI.BaseURL != "" {
		result.AI.BaseURL = override.AI.BaseURL
	}
	if override.AI.Timeout != 0 {
		result.AI.Timeout = override.AI.Timeout
	}
	if override.AI.MaxTokens != 0 {
		result.AI.MaxTokens = override.AI.MaxTokens
	}
	if override.Board.Default != "" {
		result.Board.Default = override.Board.Default
	}
	if override.Analytics.TrendDays != 0 {
		result.Analytics.TrendDays = override.Analytics.TrendDays
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}

	return &result
}
