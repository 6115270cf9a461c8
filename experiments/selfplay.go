package experiments

import (
	"context"
	"fmt"
	"os"

	"connect4/config"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher/agent"
	"connect4/store"

	"github.com/rs/zerolog/log"
)

type SelfPlayReport struct {
	Score     Score  // from the first mover's point of view
	Records   int    // store size after the run
	StorePath string // last store file written
}

// SelfPlay plays games agent against itself with the training exploration
// constant and feeds every finished game into st. The store is saved every
// cfg.Training.SaveEvery games and at the end, and each game is appended to
// the parquet game log when one is configured. outDir receives the CSV
// records; empty skips them.
func SelfPlay(ctx context.Context, cfg config.Config, st *store.Store, games int, outDir string) (SelfPlayReport, error) {
	var report SelfPlayReport
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	if st.Width() != cfg.Board.Width || st.Height() != cfg.Board.Height {
		return report, fmt.Errorf("store is %dx%d but the board is %dx%d", st.Width(), st.Height(), cfg.Board.Width, cfg.Board.Height)
	}

	trainer := agentConfig(1, cfg.Search, cfg.Training.Exploration, cfg.Search.StoreAssist)
	mcts := createMCTS(trainer, cfg.Search.Batch, st, newSource())
	self := player{config: trainer, agent: agent.NewTrainingAgent(mcts, cfg.Training.Temperature, newSource())}

	var rows []store.GameRow
	if cfg.Store.GameLog != "" {
		if _, err := os.Stat(cfg.Store.GameLog); err == nil {
			rows, err = store.ReadGameLog(cfg.Store.GameLog)
			if err != nil {
				return report, err
			}
		}
	}

	log.Info().Msgf("starting self-play of %d games with %d stored positions...", games, st.Len())

	var r recorder
	save := func() error {
		path, err := st.SaveFile(cfg.Store.SaveBase)
		if err != nil {
			return err
		}
		report.StorePath = path
		if cfg.Store.GameLog != "" {
			if err := store.WriteGameLog(cfg.Store.GameLog, rows); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, position := r.runGame(cfg, self, self)
		if err := st.Ingest(position, outcome); err != nil {
			return report, fmt.Errorf("failed to ingest game %d: %w", i+1, err)
		}
		rows = append(rows, store.GameRow{
			Position: position,
			Outcome:  int32(outcome),
			Plies:    int32(len(position)),
			Source:   "selfplay",
		})
		report.Score.add(outcome, game.First)
		log.Info().Msgf("completed game %d of %d: %s (%s)", i+1, games, outcome, position)

		if (i+1)%cfg.Training.SaveEvery == 0 && i+1 < games {
			if err := save(); err != nil {
				return report, err
			}
		}
	}
	if games > 0 {
		if err := save(); err != nil {
			return report, err
		}
	}
	report.Records = st.Len()

	log.Info().Msgf("completed self-play: %s for the first mover, %d positions from %d games stored", report.Score, report.Records, st.Games())
	return report, r.write(outDir, "selfplay", []metrics.AgentConfig{trainer})
}
