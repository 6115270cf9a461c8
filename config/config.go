// Package config holds the tunable settings of the engine and its training runs.
package config

import (
	"fmt"
	"os"

	"connect4/game"

	"gopkg.in/yaml.v3"
)

type Board struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Search struct {
	Exploration float64 `yaml:"exploration"`
	Rollout     string  `yaml:"rollout"` // dumb or smart
	Trials      int     `yaml:"trials"`
	Growth      float64 `yaml:"growth"`    // trial budget multiplier applied after every move
	Threshold   float64 `yaml:"threshold"` // 0 disables early stopping
	Batch       int     `yaml:"batch"`
	StoreAssist bool    `yaml:"store_assist"`
}

type Store struct {
	Path     string `yaml:"path"`      // store file to load, empty for a fresh store
	SaveBase string `yaml:"save_base"` // record count is appended when saving
	GameLog  string `yaml:"game_log"`  // parquet log of self-play games, empty to disable
}

type Training struct {
	Exploration float64 `yaml:"exploration"`
	Temperature float64 `yaml:"temperature"`
	SaveEvery   int     `yaml:"save_every"`
	Games       int     `yaml:"games"`
}

type Config struct {
	Board    Board    `yaml:"board"`
	Search   Search   `yaml:"search"`
	Store    Store    `yaml:"store"`
	Training Training `yaml:"training"`
}

func Default() Config {
	return Config{
		Board: Board{Width: game.DefaultWidth, Height: game.DefaultHeight},
		Search: Search{
			Exploration: 1.4970703125,
			Rollout:     "smart",
			Trials:      10000,
			Growth:      1.07,
			Threshold:   0.15,
			Batch:       1000,
		},
		Store: Store{
			SaveBase: "states",
		},
		Training: Training{
			Exploration: 10,
			Temperature: 1,
			SaveEvery:   500,
			Games:       500,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := game.NewBoard(c.Board.Width, c.Board.Height); err != nil {
		return err
	}
	switch {
	case c.Search.Exploration < 0:
		return fmt.Errorf("search.exploration must not be negative, got %v", c.Search.Exploration)
	case c.Search.Rollout != "dumb" && c.Search.Rollout != "smart":
		return fmt.Errorf("search.rollout must be dumb or smart, got %q", c.Search.Rollout)
	case c.Search.Trials <= 0:
		return fmt.Errorf("search.trials must be positive, got %d", c.Search.Trials)
	case c.Search.Growth < 1:
		return fmt.Errorf("search.growth must be at least 1, got %v", c.Search.Growth)
	case c.Search.Threshold < 0:
		return fmt.Errorf("search.threshold must not be negative, got %v", c.Search.Threshold)
	case c.Search.Batch <= 0:
		return fmt.Errorf("search.batch must be positive, got %d", c.Search.Batch)
	case c.Search.StoreAssist && c.Search.Rollout != "smart":
		return fmt.Errorf("search.store_assist requires the smart rollout")
	case c.Training.Exploration < 0:
		return fmt.Errorf("training.exploration must not be negative, got %v", c.Training.Exploration)
	case c.Training.Temperature <= 0:
		return fmt.Errorf("training.temperature must be positive, got %v", c.Training.Temperature)
	case c.Training.SaveEvery <= 0:
		return fmt.Errorf("training.save_every must be positive, got %d", c.Training.SaveEvery)
	case c.Training.Games < 0:
		return fmt.Errorf("training.games must not be negative, got %d", c.Training.Games)
	}
	return nil
}
