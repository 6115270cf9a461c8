package engine

import (
	"context"
	"math/rand/v2"
	"testing"

	"connect4/game"
	"connect4/searcher"

	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, options ...searcher.Option) *Session {
	t.Helper()
	options = append([]searcher.Option{searcher.WithSource(rand.NewPCG(1, 2))}, options...)
	s, err := NewSession(game.DefaultWidth, game.DefaultHeight, searcher.NewMCTS(options...), 1.07)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	_, err := NewSession(3, 6, searcher.NewMCTS(), 1.07)
	require.Error(t, err, "Boards narrower than four should be rejected")

	_, err = NewSession(7, 6, searcher.NewMCTS(), 0.5)
	require.Error(t, err, "Shrinking budgets should be rejected")
}

func TestSessionPlay(t *testing.T) {
	t.Run("full column is rejected", func(t *testing.T) {
		s := newSession(t)
		for i := 0; i < game.DefaultHeight; i++ {
			require.True(t, s.Legal(3))
			row, err := s.Play(3)
			require.NoError(t, err)
			require.Equal(t, game.DefaultHeight-1-i, row)
		}
		gen := s.Generation()

		require.False(t, s.Legal(3))
		_, err := s.Play(3)

		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, gen, s.Generation(), "Rejected moves should not start a new generation")
		require.Equal(t, "444444", s.Position())
	})

	t.Run("out of range columns are rejected", func(t *testing.T) {
		s := newSession(t)
		for _, col := range []int{-1, game.DefaultWidth} {
			_, err := s.Play(col)
			require.ErrorIs(t, err, ErrIllegalMove)
		}
		require.Zero(t, s.Board().Discs())
	})

	t.Run("no moves after a win", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Setup("121212"))
		_, err := s.Play(0)
		require.NoError(t, err)
		require.Equal(t, game.FirstPlayerWins, s.Outcome())

		_, err = s.Play(1)
		require.ErrorIs(t, err, ErrGameOver)
		_, err = s.Step(s.Generation())
		require.ErrorIs(t, err, ErrGameOver)
		require.False(t, s.Legal(1))
	})

	t.Run("bad setup keeps the current game", func(t *testing.T) {
		s := newSession(t)
		_, err := s.Play(0)
		require.NoError(t, err)

		require.Error(t, s.Setup("18"))
		require.Equal(t, "1", s.Position())
		require.Equal(t, game.Second, s.Turn())
	})

	t.Run("budget grows after every move", func(t *testing.T) {
		s := newSession(t, searcher.WithTrials(1000))
		require.Equal(t, 1000, s.Budget())
		_, err := s.Play(0)
		require.NoError(t, err)
		require.Equal(t, 1070, s.Budget())

		s.NewGame()
		require.Equal(t, 1000, s.Budget(), "New games start from the base budget")
		require.Empty(t, s.Position())
	})
}

func TestSessionStep(t *testing.T) {
	t.Run("stale generation is ignored", func(t *testing.T) {
		s := newSession(t, searcher.WithTrials(1000), searcher.WithThreshold(0))
		gen := s.Generation()
		_, err := s.Play(3)
		require.NoError(t, err)

		done, err := s.Step(gen)

		require.True(t, done)
		require.ErrorIs(t, err, ErrStaleGeneration)
		_, maxDepth, _ := s.DepthRange()
		require.Zero(t, maxDepth, "A stale step should not grow the tree")
	})

	t.Run("steps until the budget is spent", func(t *testing.T) {
		s := newSession(t, searcher.WithTrials(2000), searcher.WithBatch(500), searcher.WithThreshold(0))
		gen := s.Generation()

		steps := 0
		for done := false; !done; steps++ {
			var err error
			done, err = s.Step(gen)
			require.NoError(t, err)
		}

		require.Equal(t, 4, steps)
		minDepth, maxDepth, _ := s.DepthRange()
		require.LessOrEqual(t, minDepth, maxDepth)
		require.Greater(t, maxDepth, 1)
	})

	t.Run("background search stops when a move is played", func(t *testing.T) {
		s := newSession(t, searcher.WithTrials(100000000), searcher.WithBatch(100), searcher.WithThreshold(0))
		gen := s.Generation()
		result := make(chan error, 1)
		go func() {
			result <- s.think(context.Background(), gen)
		}()

		_, err := s.Play(3)
		require.NoError(t, err)

		require.ErrorIs(t, <-result, ErrStaleGeneration)
	})

	t.Run("canceled context stops thinking", func(t *testing.T) {
		s := newSession(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, s.Think(ctx), context.Canceled)
	})
}

func TestSessionBestMove(t *testing.T) {
	t.Run("forced win is reported without searching", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Setup("121212"))

		move, status, err := s.BestMove()

		require.NoError(t, err)
		require.Equal(t, 0, move)
		require.Equal(t, searcher.ForcedWin, status.Kind)
	})

	t.Run("play best blocks the only threat", func(t *testing.T) {
		s := newSession(t, searcher.WithTrials(500))
		require.NoError(t, s.Setup("12121"))

		move, err := s.PlayBest(context.Background())

		require.NoError(t, err)
		require.Equal(t, 0, move)
		require.Equal(t, "121211", s.Position())
	})

	t.Run("finished game has no best move", func(t *testing.T) {
		s := newSession(t)
		require.NoError(t, s.Setup("1212121"))

		_, _, err := s.BestMove()
		require.ErrorIs(t, err, ErrGameOver)
		_, err = s.PlayBest(context.Background())
		require.ErrorIs(t, err, ErrGameOver)
	})
}
