package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/taskflow/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	dataDir       string // Path to the .taskflow directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskflow)
}

// NewManager creates a new Manager.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dataDir, globalConfDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// GetInfo returns the locations of the config files and whether they exist.
func (m *Manager) GetInfo() domain.ConfigInfo {
	info := domain.ConfigInfo{
		ProjectPath: domain.ProjectConfigPath(m.dataDir),
	}
	info.ProjectExists = fileExists(info.ProjectPath)
	if m.globalConfDir != "" {
		info.GlobalPath = filepath.Join(m.globalConfDir, domain.ConfigFileName)
		info.GlobalExists = fileExists(info.GlobalPath)
	}
	return info
}

// InitProjectConfig creates the project config file with the default template.
func (m *Manager) InitProjectConfig() error {
	if err := os.MkdirAll(m.dataDir, 0o750); err != nil {
		return err
	}
	return initConfig(domain.ProjectConfigPath(m.dataDir))
}

// InitGlobalConfig creates the global config file with the default template.
func (m *Manager) InitGlobalConfig() error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}
	return initConfig(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// initConfig creates a config file with default template.
func initConfig(path string) error {
	if fileExists(path) {
		return domain.ErrConfigExists
	}
	content := domain.RenderConfigTemplate(domain.NewDefaultConfig())
	return os.WriteFile(path, []byte(content), 0o600)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
