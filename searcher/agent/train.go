package agent

import (
	"math"
	"math/rand/v2"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"

	"golang.org/x/exp/slices"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples root moves in proportion to their visits raised to 1/temperature,
// which varies the games recorded into the store.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, src rand.Source) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return trainingAgent{mcts: mcts, temperature: temperature, rng: rand.New(src)}
}

func (a trainingAgent) FindMove(b *game.Board, turn game.Color, budget int) (int, metrics.SearchMetric) {
	tree, metric := a.mcts.Search(b, turn, budget)
	if move, status := tree.BestMove(); status.Resolved() || len(tree.Children(searcher.Root)) < 2 {
		return move, metric
	}
	policy := adjustTemperature(tree.Policy(), a.temperature)
	return sample(policy, a.rng.Float64()), metric
}

func adjustTemperature(policy map[int]float64, temperature float64) map[int]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[int]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the moves in column order so a given draw always picks the same move.
func sample(policy map[int]float64, sampled float64) int {
	moves := make([]int, 0, len(policy))
	for move := range policy {
		moves = append(moves, move)
	}
	slices.Sort(moves)
	cumulative := 0.0
	lastMove := -1
	for _, move := range moves {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
