package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"connect4/game"
	"connect4/searcher"

	"github.com/rs/zerolog/log"
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameOver        = errors.New("game is over")
	ErrStaleGeneration = errors.New("search generation is stale")
)

// Session owns the authoritative board of one game and the search tree for
// the position on it. Every change of position bumps the generation, and a
// Step scheduled under an older generation returns ErrStaleGeneration
// without touching the tree. A Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	width      int
	height     int
	board      *game.Board
	moves      []int
	outcome    game.Outcome
	mcts       *searcher.MCTS
	tree       *searcher.Tree
	generation uint64
	budget     float64
	growth     float64
}

func NewSession(width, height int, mcts *searcher.MCTS, growth float64) (*Session, error) {
	if growth < 1 {
		return nil, fmt.Errorf("budget growth must be at least 1, got %v", growth)
	}
	b, err := game.NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	s := &Session{width: width, height: height, mcts: mcts, growth: growth}
	s.reset(b, nil, game.InProgress)
	return s, nil
}

func (s *Session) reset(b *game.Board, moves []int, outcome game.Outcome) {
	s.board = b
	s.moves = moves
	s.outcome = outcome
	s.budget = float64(s.mcts.Trials())
	s.advance()
}

// advance drops the tree and invalidates every pending Step.
func (s *Session) advance() {
	s.generation++
	s.tree = nil
}

// NewGame clears the board.
func (s *Session) NewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, _ := game.NewBoard(s.width, s.height)
	s.reset(b, nil, game.InProgress)
}

// Setup replaces the game with the one reached by position. On error the
// current game is kept.
func (s *Session) Setup(position string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, outcome, err := game.Setup(s.width, s.height, position)
	if err != nil {
		return fmt.Errorf("failed to set up %q: %w", position, err)
	}
	moves, _ := game.ParsePosition(position, s.width)
	s.reset(b, moves, outcome)
	return nil
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Board returns a copy of the current board.
func (s *Session) Board() *game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Copy()
}

func (s *Session) Turn() game.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ToMove()
}

func (s *Session) Outcome() game.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Position returns the moves played so far in move notation.
func (s *Session) Position() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.FormatPosition(s.moves)
}

// Budget returns the trial budget for the current move.
func (s *Session) Budget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.budget)
}

func (s *Session) Legal(col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.outcome.Over() && s.board.Legal(col)
}

// Play drops a disc for the side to move into col and returns the row it
// landed on. A rejected move leaves the session untouched.
func (s *Session) Play(col int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play(col)
}

func (s *Session) play(col int) (int, error) {
	if s.outcome.Over() {
		return -1, ErrGameOver
	}
	row, ok := s.board.Drop(col, s.board.ToMove())
	if !ok {
		return -1, fmt.Errorf("column %d: %w", col+1, ErrIllegalMove)
	}
	s.moves = append(s.moves, col)
	s.outcome = game.CheckFromCell(s.board, col, row)
	s.budget *= s.growth
	s.advance()
	return row, nil
}

func (s *Session) ensureTree() *searcher.Tree {
	if s.tree == nil {
		s.tree = s.mcts.NewTree(s.board, s.board.ToMove())
	}
	return s.tree
}

// Step runs one batch of episodes for generation gen and reports whether
// the search for the current move is finished.
func (s *Session) Step(gen uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return true, ErrStaleGeneration
	}
	if s.outcome.Over() {
		return true, ErrGameOver
	}
	tree := s.ensureTree()
	if done, _ := s.mcts.Done(tree, int(s.budget)); done {
		return true, nil
	}
	s.mcts.Batch(tree, s.board)
	done, confident := s.mcts.Done(tree, int(s.budget))
	if confident {
		log.Debug().Uint64("generation", gen).Msg("search settled before the budget")
	}
	return done, nil
}

// Think steps the current generation until its search is finished, ctx is
// done or the position changes underneath it.
func (s *Session) Think(ctx context.Context) error {
	return s.think(ctx, s.Generation())
}

func (s *Session) think(ctx context.Context, gen uint64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := s.Step(gen)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// BestMove returns the column the search currently prefers, or the
// resolved status of the position.
func (s *Session) BestMove() (int, searcher.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome.Over() {
		return -1, searcher.Status{}, ErrGameOver
	}
	move, status := s.ensureTree().BestMove()
	return move, status, nil
}

// DepthRange reports the shallowest and deepest search lines and the side
// the search favors.
func (s *Session) DepthRange() (int, int, game.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureTree().DepthRange()
}

// PlayBest searches the current position and plays the preferred column.
func (s *Session) PlayBest(ctx context.Context) (int, error) {
	gen := s.Generation()
	if err := s.think(ctx, gen); err != nil {
		return -1, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return -1, ErrStaleGeneration
	}
	if s.outcome.Over() {
		return -1, ErrGameOver
	}
	move, status := s.ensureTree().BestMove()
	if move < 0 {
		return -1, fmt.Errorf("no move to play in a %s position: %w", status, ErrGameOver)
	}
	if _, err := s.play(move); err != nil {
		return -1, err
	}
	return move, nil
}
