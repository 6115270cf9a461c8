package engine

import (
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher/agent"

	"github.com/rs/zerolog/log"
)

// LocalEngine plays one game between two in-process agents. The per-move trial
// budget starts at trials and is multiplied by growth after every move.
type LocalEngine struct {
	board  *game.Board
	moves  []int
	agents [2]agent.Agent
	trials int
	growth float64
}

// NewLocalEngine starts from b, which is copied. first moves as game.First.
func NewLocalEngine(b *game.Board, first, second agent.Agent, trials int, growth float64) *LocalEngine {
	if first == nil || second == nil {
		panic("need two agents")
	}
	if growth < 1 {
		panic("budget growth must be at least 1")
	}
	return &LocalEngine{
		board:  b.Copy(),
		agents: [2]agent.Agent{first, second},
		trials: trials,
		growth: growth,
	}
}

// Moves returns the columns played so far.
func (e *LocalEngine) Moves() []int {
	return e.moves
}

// Run executes the entire game loop until the game is over.
func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	outcome := game.CheckFull(e.board)
	budget := float64(e.trials)
	for step := 1; !outcome.Over(); step++ {
		turn := e.board.ToMove()
		move, searchMetric := e.agents[turn-1].FindMove(e.board, turn, int(budget))

		row, ok := e.board.Drop(move, turn)
		if !ok {
			log.Warn().Msgf("player %d chose unplayable column %d, playing the first legal column", turn, move)
			move = e.board.LegalMoves()[0]
			row, _ = e.board.Drop(move, turn)
		}
		e.moves = append(e.moves, move)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(turn),
			Column:       move,
			SearchMetric: searchMetric,
		})

		outcome = game.CheckFromCell(e.board, move, row)
		budget *= e.growth
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(e.moves)
	gameMetric.Outcome = int(outcome)
	gameMetric.Position = game.FormatPosition(e.moves)

	log.Debug().Str("position", gameMetric.Position).Stringer("outcome", outcome).Msg("game over")
	return outcome, gameMetric, moveMetrics
}
