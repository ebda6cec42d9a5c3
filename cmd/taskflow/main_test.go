package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/app"
)

func TestCanRunWithoutContainer(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "no args opens the TUI", args: nil, want: false},
		{name: "help flag", args: []string{"--help"}, want: true},
		{name: "version flag", args: []string{"--version"}, want: true},
		{name: "help subcommand", args: []string{"help", "new"}, want: true},
		{name: "subcommand help", args: []string{"sprint", "-h"}, want: true},
		{name: "completion", args: []string{"completion", "bash"}, want: true},
		{name: "regular command", args: []string{"new", "--title", "test"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canRunWithoutContainer(tt.args))
		})
	}
}

func TestRun_InitThenList(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(app.EnvDataDir, dir)
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, run([]string{"init"}))
	assert.DirExists(t, filepath.Join(dir, "logs"))

	require.NoError(t, run([]string{"new", "--title", "From main"}))
	require.NoError(t, run([]string{"list"}))
	assert.FileExists(t, filepath.Join(dir, "store.json"))
}
