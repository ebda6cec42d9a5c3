package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
)

// =============================================================================
// Config Command Tests
// =============================================================================

func TestConfigShowCommand(t *testing.T) {
	c := newTestContainer(t, nil)
	manager := testutil.NewMockConfigManager()
	manager.Info.ProjectExists = true
	loader := testutil.NewMockConfigLoader()
	loader.Config.AI.APIKey = "secret-key"
	loader.Config.Warnings = []string{"unknown key: ai.temperature"}
	c.ConfigManager = manager
	c.ConfigLoader = loader

	out := mustExecute(t, newConfigCommand(c), "show")

	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "/home/test/.config/taskflow/config.toml (not found)")
	assert.Contains(t, out, "- /test/.taskflow/config.toml\n")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[storage]")
	assert.Contains(t, out, "api_key")
	assert.Contains(t, out, "(set)")
	assert.NotContains(t, out, "secret-key")
	assert.Contains(t, out, "[Warnings]")
	assert.Contains(t, out, "- unknown key: ai.temperature")
}

func TestConfigInitCommand(t *testing.T) {
	t.Run("project", func(t *testing.T) {
		c := newTestContainer(t, nil)
		manager := testutil.NewMockConfigManager()
		c.ConfigManager = manager

		out := mustExecute(t, newConfigCommand(c), "init")

		assert.True(t, manager.InitCalled)
		assert.Contains(t, out, "Created config file: /test/.taskflow/config.toml")
	})

	t.Run("global", func(t *testing.T) {
		c := newTestContainer(t, nil)
		manager := testutil.NewMockConfigManager()
		c.ConfigManager = manager

		out := mustExecute(t, newConfigCommand(c), "init", "--global")

		assert.True(t, manager.InitGlobalCalled)
		assert.Contains(t, out, "/home/test/.config/taskflow/config.toml")
	})

	t.Run("error", func(t *testing.T) {
		c := newTestContainer(t, nil)
		manager := testutil.NewMockConfigManager()
		manager.InitErr = domain.ErrConfigExists
		c.ConfigManager = manager

		_, _, err := execute(t, newConfigCommand(c), "init")

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

// =============================================================================
// Logs Command Tests
// =============================================================================

func TestLogsCommand(t *testing.T) {
	c := newTestContainer(t, nil)
	logDir := filepath.Join(c.Config.DataDir, "logs")
	require.NoError(t, os.MkdirAll(logDir, 0o750))
	content := "[2025-03-10 09:00:00] [INFO] [id-1] [task] created\n[2025-03-10 09:01:00] [INFO] [id-2] [task] moved\n"
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "taskflow.log"), []byte(content), 0o600))

	out := mustExecute(t, newLogsCommand(c))
	assert.Equal(t, content, out)

	out = mustExecute(t, newLogsCommand(c), "id-2")
	assert.Contains(t, out, "] moved")
	assert.NotContains(t, out, "] created")

	out = mustExecute(t, newLogsCommand(c), "-n", "1")
	assert.NotContains(t, out, "] created")
}

func TestLogsCommand_Empty(t *testing.T) {
	c := newTestContainer(t, nil)

	out, stderr, err := execute(t, newLogsCommand(c))

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "No log entries in")
}

// =============================================================================
// Migrate Command Tests
// =============================================================================

func TestMigrateCommand_ToRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := newTestContainer(t, nil)
	t.Cleanup(func() { _ = c.Close() })
	mustExecute(t, newNewCommand(c), "--title", "Migrated task")
	c.AppConfig.Storage.RedisAddr = mr.Addr()
	c.AppConfig.Storage.Namespace = "tf"

	out := mustExecute(t, newMigrateCommand(c), "--to", "redis")

	assert.Contains(t, out, "Migrated json -> redis")
	raw, err := mr.Get("tf:tasks")
	require.NoError(t, err)
	assert.Contains(t, raw, "Migrated task")

	out = mustExecute(t, newMigrateCommand(c), "--to", "redis")
	assert.Contains(t, out, "Copied: 0")
}

func TestMigrateCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		wantErr error
	}{
		{name: "same backend", to: "json"},
		{name: "unknown backend", to: "sqlite", wantErr: domain.ErrUnknownStoreBackend},
		{name: "redis without address", to: "redis", wantErr: domain.ErrUnknownStoreBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, nil)

			_, _, err := execute(t, newMigrateCommand(c), "--to", tt.to)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}
