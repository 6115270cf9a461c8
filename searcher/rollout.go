package searcher

import (
	"fmt"
	"math/rand/v2"

	"connect4/experiments/metrics"
	"connect4/game"
)

type RolloutKind string

const (
	Dumb  RolloutKind = "dumb"
	Smart RolloutKind = "smart"
)

func ParseRolloutKind(s string) (RolloutKind, error) {
	switch RolloutKind(s) {
	case Dumb, Smart:
		return RolloutKind(s), nil
	}
	return "", fmt.Errorf("unknown rollout policy %q", s)
}

// Oracle answers rollouts from recorded game outcomes. A miss means the
// position was never recorded.
type Oracle interface {
	Lookup(b *game.Board) (game.Outcome, bool)
}

// Rollout plays b to completion with turn to move and returns +1, -1 or 0
// from turn's perspective. b is consumed.
type Rollout interface {
	Run(b *game.Board, turn game.Color) int
}

// NewRollout builds the rollout policy of the given kind. oracle may be nil.
func NewRollout(kind RolloutKind, rng *rand.Rand, oracle Oracle, collector metrics.Collector) Rollout {
	if kind == Dumb {
		return &dumbRollout{rng: rng, metrics: collector}
	}
	return &smartRollout{rng: rng, oracle: oracle, metrics: collector}
}

type dumbRollout struct {
	rng     *rand.Rand
	metrics metrics.Collector
}

func (r *dumbRollout) Run(b *game.Board, turn game.Color) int {
	if b.Full() {
		return 0
	}
	color := turn
	for {
		col := randomLegal(r.rng, b)
		row, _ := b.Drop(col, color)
		if outcome := game.CheckFromCell(b, col, row); outcome.Over() {
			r.metrics.AddFullPlayout()
			return outcome.Value(turn)
		}
		color = color.Opponent()
	}
}

type smartRollout struct {
	rng     *rand.Rand
	oracle  Oracle
	metrics metrics.Collector
}

func (r *smartRollout) Run(b *game.Board, turn game.Color) int {
	if r.oracle != nil {
		if outcome, ok := r.oracle.Lookup(b); ok {
			r.metrics.AddStoreAssist()
			return outcome.Value(turn)
		}
	}
	if b.Full() {
		return 0
	}

	color := turn
	for {
		if col, _, ok := game.AnyImmediateWin(b, color); ok {
			b.Drop(col, color)
			r.metrics.AddFullPlayout()
			return game.Won(color).Value(turn)
		}
		// The mover has no win here, so neither a block nor a random drop can complete four.
		col, _, ok := game.AnyImmediateWin(b, color.Opponent())
		if !ok {
			col = randomLegal(r.rng, b)
		}
		b.Drop(col, color)
		if b.Full() {
			r.metrics.AddFullPlayout()
			return 0
		}
		color = color.Opponent()
	}
}

// randomLegal draws columns until it finds a non-full one. b must not be full.
func randomLegal(rng *rand.Rand, b *game.Board) int {
	for {
		col := rng.IntN(b.Width())
		if b.Legal(col) {
			return col
		}
	}
}
