package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/runoshun/taskflow/internal/usecase"
)

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns config locations and effective config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.Info.ProjectExists = true
		loader := testutil.NewMockConfigLoader()
		loader.Config.Board.Default = domain.BoardScrum
		loader.Config.Warnings = []string{"unknown key in [ai]: temperature"}

		out, err := usecase.NewShowConfig(manager, loader).Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, "/test/.taskflow/config.toml", out.Info.ProjectPath)
		assert.True(t, out.Info.ProjectExists)
		assert.False(t, out.Info.GlobalExists)
		assert.Equal(t, domain.BoardScrum, out.Effective.Board.Default)
		assert.Equal(t, []string{"unknown key in [ai]: temperature"}, out.Warnings)
	})

	t.Run("returns loader error", func(t *testing.T) {
		loader := testutil.NewMockConfigLoader()
		loader.LoadErr = assert.AnError

		_, err := usecase.NewShowConfig(testutil.NewMockConfigManager(), loader).Execute(context.Background(), usecase.ShowConfigInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
