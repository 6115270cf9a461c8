package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 7, cfg.Board.Width)
	require.Equal(t, 6, cfg.Board.Height)
	require.InDelta(t, 1.497, cfg.Search.Exploration, 0.001)
	require.Equal(t, 0.15, cfg.Search.Threshold)
	require.Equal(t, 1.07, cfg.Search.Growth)
	require.False(t, cfg.Search.StoreAssist, "Store assistance should be opt-in")
}

func TestLoad(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
board:
  width: 9
search:
  rollout: dumb
  threshold: 0
store:
  path: states.1000
`)
		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, 9, cfg.Board.Width)
		require.Equal(t, 6, cfg.Board.Height, "Missing keys should keep defaults")
		require.Equal(t, "dumb", cfg.Search.Rollout)
		require.Zero(t, cfg.Search.Threshold)
		require.Equal(t, "states.1000", cfg.Store.Path)
		require.Equal(t, 10000, cfg.Search.Trials)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: [trials"))
		require.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  trials: -5\n"))
		require.ErrorContains(t, err, "search.trials")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"narrow board", func(c *Config) { c.Board.Width = 3 }},
		{"wide board", func(c *Config) { c.Board.Width = 10 }},
		{"negative exploration", func(c *Config) { c.Search.Exploration = -1 }},
		{"unknown rollout", func(c *Config) { c.Search.Rollout = "clever" }},
		{"shrinking budget", func(c *Config) { c.Search.Growth = 0.9 }},
		{"negative threshold", func(c *Config) { c.Search.Threshold = -0.1 }},
		{"empty batch", func(c *Config) { c.Search.Batch = 0 }},
		{"store assist on dumb rollouts", func(c *Config) {
			c.Search.Rollout = "dumb"
			c.Search.StoreAssist = true
		}},
		{"zero temperature", func(c *Config) { c.Training.Temperature = 0 }},
		{"zero save interval", func(c *Config) { c.Training.SaveEvery = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
