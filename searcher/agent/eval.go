package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(b *game.Board, turn game.Color, budget int) (int, metrics.SearchMetric) {
	tree, metric := a.mcts.Search(b, turn, budget)
	move, _ := tree.BestMove()
	return move, metric
}
