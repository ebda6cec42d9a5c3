package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir(), nil)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_ProjectConfigOnly(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[storage]
backend = "redis"
redis_addr = "localhost:6380"
redis_db = 2
namespace = "team"

[ai]
provider = "groq"
model = "llama-3.3-70b"
base_url = "http://localhost:8080/v1"
timeout = "45s"
max_tokens = 512

[board]
default = "scrum"

[analytics]
trend_days = 14

[log]
level = "debug"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir(), nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "localhost:6380", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, "team", cfg.Storage.Namespace)
	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "llama-3.3-70b", cfg.AI.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.AI.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 512, cfg.AI.MaxTokens)
	assert.Equal(t, domain.BoardScrum, cfg.Board.Default)
	assert.Equal(t, 14, cfg.Analytics.TrendDays)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_MergeProjectOverridesGlobal(t *testing.T) {
	dataDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[ai]
model = "global-model"
timeout = "10s"

[log]
level = "warn"
`)
	writeConfig(t, dataDir, `
[log]
level = "debug"
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, globalDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "global-model", cfg.AI.Model)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, domain.DefaultMaxTokens, cfg.AI.MaxTokens)
}

func TestLoader_Load_Warnings(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, `
[storage]
engine = "sqlite"

[ai]
timeout = "soon"

[board]
default = "gantt"

[themes]
dark = true
`)

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir(), nil).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"invalid value for ai.timeout: soon",
		"invalid value for board.default: gantt",
		"unknown key in [storage]: engine",
		"unknown section: themes",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultAITimeout, cfg.AI.Timeout)
	assert.Equal(t, domain.BoardKanban, cfg.Board.Default)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, "[log\nlevel=")

	_, err := NewLoaderWithGlobalDir(dataDir, t.TempDir(), nil).Load()
	assert.Error(t, err)
}

func TestLoader_Load_APIKeyFromEnv(t *testing.T) {
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	t.Run("first provider with a key", func(t *testing.T) {
		loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir(), env(map[string]string{"GROQ_API_KEY": "gk"}))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "groq", cfg.AI.Provider)
		assert.Equal(t, "gk", cfg.AI.APIKey)
	})

	t.Run("configured provider", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfig(t, dataDir, "[ai]\nprovider = \"openrouter\"\n")
		loader := NewLoaderWithGlobalDir(dataDir, t.TempDir(), env(map[string]string{"GROQ_API_KEY": "gk"}))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "openrouter", cfg.AI.Provider)
		assert.Empty(t, cfg.AI.APIKey)
	})
}

func TestLoader_LoadGlobal_NoDir(t *testing.T) {
	_, err := NewLoaderWithGlobalDir(t.TempDir(), "", nil).LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_RenderedTemplateLoadsCleanly(t *testing.T) {
	dataDir := t.TempDir()
	writeConfig(t, dataDir, domain.RenderConfigTemplate(domain.NewDefaultConfig()))

	cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir(), nil).Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}
