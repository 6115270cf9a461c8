package experiments

import (
	"context"

	"connect4/config"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher/agent"
	"connect4/store"

	"github.com/rs/zerolog/log"
)

// EvaluationReport scores the store-assisted agent against the plain one.
type EvaluationReport struct {
	Total    Score
	AsFirst  Score
	AsSecond Score
}

// Evaluate plays games between an agent whose smart rollouts consult st and
// an otherwise identical agent without it, alternating who moves first.
func Evaluate(ctx context.Context, cfg config.Config, st *store.Store, games int, outDir string) (EvaluationReport, error) {
	var report EvaluationReport
	if err := cfg.Validate(); err != nil {
		return report, err
	}

	search := cfg.Search
	search.Rollout = "smart"
	assistedConfig := agentConfig(1, search, search.Exploration, true)
	plainConfig := agentConfig(2, search, search.Exploration, false)
	assisted := player{config: assistedConfig, agent: agent.NewEvaluationAgent(createMCTS(assistedConfig, search.Batch, st, newSource()))}
	plain := player{config: plainConfig, agent: agent.NewEvaluationAgent(createMCTS(plainConfig, search.Batch, nil, newSource()))}

	log.Info().Msgf("starting evaluation of %d games with %d stored positions...", games, st.Len())

	var r recorder
	for i := 0; i < games; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		first, second, color := assisted, plain, game.First
		if i%2 == 1 {
			first, second, color = plain, assisted, game.Second
		}
		outcome, position := r.runGame(cfg, first, second)

		report.Total.add(outcome, color)
		if color == game.First {
			report.AsFirst.add(outcome, color)
		} else {
			report.AsSecond.add(outcome, color)
		}
		log.Info().Msgf("completed game %d of %d: %s (%s)", i+1, games, outcome, position)
	}

	log.Info().
		Stringer("total", report.Total).
		Stringer("first", report.AsFirst).
		Stringer("second", report.AsSecond).
		Msg("completed evaluation of the store-assisted agent")
	return report, r.write(outDir, "evaluation", []metrics.AgentConfig{assistedConfig, plainConfig})
}
