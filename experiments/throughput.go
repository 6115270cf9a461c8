package experiments

import (
	"fmt"

	"connect4/config"
	"connect4/game"
	"connect4/searcher"
	"connect4/store"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

type ThroughputReport struct {
	Runs         int
	Episodes     int     // per run
	Mean         float64 // episodes per second
	StdDev       float64
	StoreAssists int // summed over all runs
}

// Throughput measures search episodes per second from the empty board. A
// non-nil st turns on store-assisted smart rollouts.
func Throughput(cfg config.Config, st *store.Store, episodes, runs int) (ThroughputReport, error) {
	report := ThroughputReport{Runs: runs, Episodes: episodes}
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	if episodes <= 0 || runs <= 0 {
		return report, fmt.Errorf("episodes and runs must be positive, got %d and %d", episodes, runs)
	}

	search := cfg.Search
	search.Trials = episodes
	search.Threshold = 0
	ac := agentConfig(1, search, search.Exploration, st != nil)
	var oracle searcher.Oracle
	if st != nil {
		ac.Rollout = string(searcher.Smart)
		oracle = st
	}
	mcts := createMCTS(ac, search.Batch, oracle, newSource())

	b, err := game.NewBoard(cfg.Board.Width, cfg.Board.Height)
	if err != nil {
		return report, err
	}

	rates := make([]float64, runs)
	for i := range rates {
		_, metric := mcts.Search(b, game.First, episodes)
		rates[i] = float64(metric.Episodes) / metric.Duration.Seconds()
		report.StoreAssists += metric.StoreAssists
		log.Debug().Msgf("run %d of %d: %.0f episodes per second", i+1, runs, rates[i])
	}
	report.Mean, report.StdDev = stat.MeanStdDev(rates, nil)

	log.Info().Msgf("%.0f ± %.0f simulations per second over %d runs", report.Mean, report.StdDev, runs)
	return report, nil
}
