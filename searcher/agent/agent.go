package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

type Agent interface {
	// FindMove searches b with turn to move for up to budget tries and returns the
	// chosen column with the search metrics. It returns -1 only for a full board.
	FindMove(b *game.Board, turn game.Color, budget int) (int, metrics.SearchMetric)
}
