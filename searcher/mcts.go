package searcher

import (
	"math/rand/v2"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTrials    = 10000
	DefaultBatch     = 1000
	DefaultThreshold = 0.15

	maxPrealloc = 1 << 16 // nodes reserved up front per tree
)

type Option func(mcts *MCTS)

type MCTS struct {
	trials      int
	batch       int
	threshold   float64
	exploration float64
	kind        RolloutKind
	oracle      Oracle
	rng         *rand.Rand
	rollout     Rollout
	metrics     metrics.Collector
}

func WithTrials(trials int) Option {
	return func(m *MCTS) {
		if trials > 0 {
			m.trials = trials
		}
	}
}

func WithBatch(batch int) Option {
	return func(m *MCTS) {
		if batch > 0 {
			m.batch = batch
		}
	}
}

// WithThreshold sets the certainty below which a search stops early. Zero
// disables early stopping.
func WithThreshold(threshold float64) Option {
	return func(m *MCTS) {
		if threshold >= 0 {
			m.threshold = threshold
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithRollout(kind RolloutKind) Option {
	return func(m *MCTS) {
		if kind != "" {
			m.kind = kind
		}
	}
}

// WithOracle lets smart rollouts end early on positions the oracle knows.
func WithOracle(oracle Oracle) Option {
	return func(m *MCTS) {
		m.oracle = oracle
	}
}

func WithSource(src rand.Source) Option {
	return func(m *MCTS) {
		if src != nil {
			m.rng = rand.New(src)
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		trials:      DefaultTrials,
		batch:       DefaultBatch,
		threshold:   DefaultThreshold,
		exploration: DefaultExploration,
		kind:        Smart,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.rollout = NewRollout(m.kind, m.rng, m.oracle, m.metrics)
	return m
}

func (m *MCTS) Trials() int {
	return m.trials
}

// NewTree returns a tree rooted at b with turn to move. The root is expanded
// right away, so a full board or an immediate win resolves it before any
// episode runs.
func (m *MCTS) NewTree(b *game.Board, turn game.Color) *Tree {
	t := newTree(turn, min(b.Width()*m.trials/4, maxPrealloc))
	t.expand(Root, b)
	return t
}

// Batch runs up to m.batch episodes on t, each on a scratch copy of b.
func (m *MCTS) Batch(t *Tree, b *game.Board) {
	scratch := b.Copy()
	for i := 0; i < m.batch; i++ {
		scratch.CopyFrom(b)
		m.descend(t, scratch)
		m.metrics.AddEpisode()
	}
}

// Done reports whether searching t any further is pointless or over budget.
// confident is set when the certainty threshold stopped the search.
func (m *MCTS) Done(t *Tree, budget int) (done bool, confident bool) {
	root := &t.nodes[Root]
	if root.status.Resolved() || len(root.children) < 2 {
		return true, false
	}
	if m.threshold > 0 && root.tries > 0 {
		if certainty, ok := t.Certainty(); ok && certainty < m.threshold {
			m.metrics.SetEarlyStop(certainty)
			return true, true
		}
	}
	return root.tries >= budget, false
}

// Search builds a fresh tree for b with turn to move and runs batches until
// budget tries are spent or the search is settled. A non-positive budget
// uses the configured trials.
func (m *MCTS) Search(b *game.Board, turn game.Color, budget int) (*Tree, metrics.SearchMetric) {
	if budget <= 0 {
		budget = m.trials
	}
	m.metrics.Start(budget)
	t := m.NewTree(b, turn)
	for done, _ := m.Done(t, budget); !done; done, _ = m.Done(t, budget) {
		m.Batch(t, b)
	}
	metric := m.metrics.Complete()

	move, status := t.BestMove()
	log.Debug().
		Int("tries", t.nodes[Root].tries).
		Int("nodes", t.Len()).
		Int("move", move).
		Stringer("status", status).
		Msg("search complete")
	return t, metric
}
