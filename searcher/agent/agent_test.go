package agent

import (
	"math/rand/v2"
	"testing"

	"connect4/game"
	"connect4/searcher"

	"github.com/stretchr/testify/require"
)

func TestAdjustTemperature(t *testing.T) {
	policy := map[int]float64{0: 0.2, 3: 0.6, 6: 0.2}

	t.Run("unit temperature keeps the distribution", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 1.0)
		for move, prob := range policy {
			require.InDelta(t, prob, adjusted[move], 1e-9)
		}
	})

	t.Run("low temperature sharpens the distribution", func(t *testing.T) {
		adjusted := adjustTemperature(policy, 0.25)
		require.Greater(t, adjusted[3], 0.95, "Most visited move should dominate")

		sum := 0.0
		for _, prob := range adjusted {
			sum += prob
		}
		require.InDelta(t, 1.0, sum, 1e-9, "Probabilities should be normalized")
	})
}

func TestSample(t *testing.T) {
	policy := map[int]float64{1: 0.25, 4: 0.5, 5: 0.25}

	require.Equal(t, 1, sample(policy, 0.1))
	require.Equal(t, 4, sample(policy, 0.3))
	require.Equal(t, 5, sample(policy, 0.9))
	require.Equal(t, 5, sample(policy, 1.0), "Rounding overflow should fall back to the last move")
}

func TestAgents(t *testing.T) {
	src := rand.NewPCG(1, 2)
	mcts := searcher.NewMCTS(searcher.WithTrials(500), searcher.WithSource(src))

	agents := map[string]Agent{
		"evaluation": NewEvaluationAgent(mcts),
		"training":   NewTrainingAgent(mcts, 1.0, src),
	}
	for name, a := range agents {
		t.Run(name+" agent takes an immediate win", func(t *testing.T) {
			b, _, err := game.Setup(game.DefaultWidth, game.DefaultHeight, "121212")
			require.NoError(t, err)

			move, _ := a.FindMove(b, game.First, 0)
			require.Equal(t, 0, move)
		})

		t.Run(name+" agent plays a legal column", func(t *testing.T) {
			b, _, err := game.Setup(game.DefaultWidth, game.DefaultHeight, "4455")
			require.NoError(t, err)

			move, _ := a.FindMove(b, b.ToMove(), 300)
			require.True(t, b.Legal(move))
		})
	}

	require.Panics(t, func() { NewTrainingAgent(mcts, 0, src) })
}
