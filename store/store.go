package store

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"connect4/game"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidOutcome = errors.New("outcome is not a finished game")

// Tally counts finished games through a position, indexed by game.Outcome:
// ties, first player wins, second player wins.
type Tally [3]int64

func (t Tally) Total() int64 {
	return t[game.Tie] + t[game.FirstPlayerWins] + t[game.SecondPlayerWins]
}

// Record is one canonical position and the outcomes observed from it.
type Record struct {
	Hash  Hash
	Tally Tally
}

type Option func(s *Store)

// WithSource sets the random source used to sample outcomes on lookup.
func WithSource(src rand.Source) Option {
	return func(s *Store) {
		if src != nil {
			s.src = src
		}
	}
}

// Store maps canonical positions to outcome tallies. Records are kept sorted by Compare
// so lookups are binary searches; records are only ever added or incremented.
type Store struct {
	width   int
	height  int
	records []Record
	src     rand.Source
}

func New(width, height int, options ...Option) *Store {
	return newStore(width, height, 0, options...)
}

func newStore(width, height, capacity int, options ...Option) *Store {
	s := &Store{
		width:   width,
		height:  height,
		records: make([]Record, 0, capacity),
		src:     rand.NewPCG(rand.Uint64(), rand.Uint64()),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Store) Width() int  { return s.width }
func (s *Store) Height() int { return s.height }
func (s *Store) Len() int    { return len(s.records) }

// Records returns a copy of the records in hash order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = Record{Hash: slices.Clone(r.Hash), Tally: r.Tally}
	}
	return out
}

func (s *Store) search(h Hash) (int, bool) {
	return slices.BinarySearchFunc(s.records, h, func(r Record, target Hash) int {
		return Compare(r.Hash, target)
	})
}

// Find returns the tally recorded for a canonical hash.
func (s *Store) Find(h Hash) (Tally, bool) {
	i, found := s.search(h)
	if !found {
		return Tally{}, false
	}
	return s.records[i].Tally, true
}

// findOrCreate returns the record for h, inserting an empty one at its sorted position.
func (s *Store) findOrCreate(h Hash) *Record {
	i, found := s.search(h)
	if !found {
		s.records = slices.Insert(s.records, i, Record{Hash: slices.Clone(h)})
	}
	return &s.records[i]
}

// Lookup samples an outcome for the board's canonical position with probability
// proportional to its tally. It reports false for unknown positions.
func (s *Store) Lookup(b *game.Board) (game.Outcome, bool) {
	if b.Width() != s.width || b.Height() != s.height {
		return game.InProgress, false
	}
	i, found := s.search(HashBoard(b))
	if !found {
		return game.InProgress, false
	}
	tally := s.records[i].Tally
	if tally.Total() <= 0 {
		return game.InProgress, false
	}
	weights := []float64{float64(tally[game.Tie]), float64(tally[game.FirstPlayerWins]), float64(tally[game.SecondPlayerWins])}
	sampled := distuv.NewCategorical(weights, s.src).Rand()
	return game.Outcome(sampled), true
}

// Ingest replays a logged game and credits its final outcome to every position it reached.
// The position is validated in full before any record changes.
func (s *Store) Ingest(position string, outcome game.Outcome) error {
	if outcome != game.Tie && outcome != game.FirstPlayerWins && outcome != game.SecondPlayerWins {
		return fmt.Errorf("ingest %q: %w: %d", position, ErrInvalidOutcome, outcome)
	}
	moves, err := game.ParsePosition(position, s.width)
	if err != nil {
		return fmt.Errorf("ingest %q: %w", position, err)
	}
	heights := make([]int, s.width)
	for i, col := range moves {
		if heights[col] >= s.height {
			return fmt.Errorf("ingest %q: ply %d: column %d is full", position, i+1, col+1)
		}
		heights[col]++
	}

	hash := make(Hash, s.width)
	weights := make([]int, s.width)
	for col := range weights {
		weights[col] = 1
	}
	for i, col := range moves {
		hash[col] += (i%2 + 1) * weights[col]
		weights[col] *= 3
		record := s.findOrCreate(Canonical(hash))
		record.Tally[outcome]++
	}
	return nil
}

// Games counts the games behind the store by summing the tallies of one-disc positions,
// since every ingested game passes through exactly one of them.
func (s *Store) Games() int64 {
	var games int64
	for _, r := range s.records {
		if isOpening(r.Hash) {
			games += r.Tally.Total()
		}
	}
	return games
}

func isOpening(h Hash) bool {
	seen := false
	for _, v := range h {
		switch {
		case v == 0:
		case v == int(game.First) && !seen:
			seen = true
		default:
			return false
		}
	}
	return seen
}
