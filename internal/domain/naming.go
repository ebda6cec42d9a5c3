package domain

import "path/filepath"

// Directory and file names for taskflow.
const (
	DirName        = ".taskflow"   // Project data directory name
	AppName        = "taskflow"    // Global config directory name
	ConfigFileName = "config.toml" // Config file name
	StoreFileName  = "store.json"  // JSON store file name
)

// ProjectDir returns the data directory for a project root.
func ProjectDir(root string) string {
	return filepath.Join(root, DirName)
}

// ProjectConfigPath returns the project config path.
func ProjectConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalDir returns the global config directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalDir(configHome), ConfigFileName)
}

// StorePath returns the path to the JSON store file.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, StoreFileName)
}

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "taskflow.log")
}
