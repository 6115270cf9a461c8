package experiments

import (
	"fmt"
	"math/rand/v2"

	"connect4/config"
	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
	"connect4/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Score counts finished games from one side's point of view.
type Score struct {
	Wins   int
	Losses int
	Ties   int
}

func (s *Score) add(outcome game.Outcome, color game.Color) {
	switch outcome.Value(color) {
	case 1:
		s.Wins++
	case -1:
		s.Losses++
	default:
		s.Ties++
	}
}

func (s Score) Games() int {
	return s.Wins + s.Losses + s.Ties
}

func (s Score) String() string {
	return fmt.Sprintf("%d wins, %d losses, %d ties", s.Wins, s.Losses, s.Ties)
}

// player pairs an agent with the configuration it is recorded under.
type player struct {
	config metrics.AgentConfig
	agent  agent.Agent
}

func agentConfig(id int, search config.Search, exploration float64, storeAssist bool) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:          id,
		Rollout:     search.Rollout,
		Trials:      search.Trials,
		Growth:      search.Growth,
		Threshold:   search.Threshold,
		Exploration: exploration,
		StoreAssist: storeAssist,
	}
}

func createMCTS(config metrics.AgentConfig, batch int, oracle searcher.Oracle, src rand.Source) *searcher.MCTS {
	options := []searcher.Option{
		searcher.WithTrials(config.Trials),
		searcher.WithBatch(batch),
		searcher.WithThreshold(config.Threshold),
		searcher.WithExploration(config.Exploration),
		searcher.WithRollout(searcher.RolloutKind(config.Rollout)),
		searcher.WithSource(src),
		searcher.WithMetrics(),
	}
	if config.StoreAssist && oracle != nil {
		options = append(options, searcher.WithOracle(oracle))
	}
	return searcher.NewMCTS(options...)
}

func newSource() rand.Source {
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// recorder collects the game and move records of one experiment.
type recorder struct {
	games []metrics.GameRecord
	moves []metrics.MoveRecord
}

// runGame plays one game on an empty board and records it.
func (r *recorder) runGame(cfg config.Config, first, second player) (game.Outcome, string) {
	b, err := game.NewBoard(cfg.Board.Width, cfg.Board.Height)
	if err != nil {
		panic(fmt.Sprintf("config was not validated: %v", err))
	}
	e := engine.NewLocalEngine(b, first.agent, second.agent, cfg.Search.Trials, cfg.Search.Growth)
	outcome, gameMetric, moveMetrics := e.Run()

	id := len(r.games) + 1
	r.games = append(r.games, metrics.GameRecord{
		ID:         id,
		Agent1:     first.config.ID,
		Agent2:     second.config.ID,
		GameMetric: gameMetric,
	})
	for _, mm := range moveMetrics {
		r.moves = append(r.moves, metrics.MoveRecord{
			Game:       id,
			MoveMetric: mm,
		})
	}
	return outcome, gameMetric.Position
}

// write stores the experiment results under dir. An empty dir skips writing.
func (r *recorder) write(dir, name string, configs []metrics.AgentConfig) error {
	if dir == "" {
		return nil
	}
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(r.games)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(r.moves)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return nil
}
