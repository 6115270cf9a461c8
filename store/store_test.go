package store

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
)

func randomGame(rng *rand.Rand) (string, game.Outcome) {
	b := game.NewStandardBoard()
	color := game.First
	moves := []int{}
	for {
		legal := b.LegalMoves()
		col := legal[rng.IntN(len(legal))]
		row, _ := b.Drop(col, color)
		moves = append(moves, col)
		if outcome := game.CheckFromCell(b, col, row); outcome.Over() {
			return game.FormatPosition(moves), outcome
		}
		color = color.Opponent()
	}
}

func TestHash(t *testing.T) {
	t.Run("encodes stacked discs in base three from the bottom", func(t *testing.T) {
		b, _, err := game.Setup(7, 6, "4414")
		require.NoError(t, err)

		h := RawHash(b)

		// column 4: first, second, second from the bottom -> 1 + 2*3 + 2*9
		require.Equal(t, Hash{1, 0, 0, 25, 0, 0, 0}, h)
	})

	t.Run("is invariant under mirroring", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 500; i++ {
			position, _ := randomGame(rng)
			b, _, err := game.Setup(7, 6, position[:rng.IntN(len(position)+1)])
			require.NoError(t, err)
			require.Equal(t, HashBoard(b), HashBoard(b.Mirror()), "Mirror images should share a canonical hash")
		}
	})

	t.Run("canonical hash is the smaller orientation", func(t *testing.T) {
		h := Hash{0, 0, 0, 0, 0, 1, 2}
		require.Equal(t, Hash{2, 1, 0, 0, 0, 0, 0}.Mirror(), h)
		require.Equal(t, Hash{0, 0, 0, 0, 0, 1, 2}, Canonical(h))
		require.Equal(t, Hash{0, 0, 0, 0, 0, 1, 2}, Canonical(Hash{2, 1, 0, 0, 0, 0, 0}))
	})

	t.Run("compares lexicographically", func(t *testing.T) {
		require.Equal(t, -1, Compare(Hash{0, 5}, Hash{1, 0}))
		require.Equal(t, 1, Compare(Hash{1, 1}, Hash{1, 0}))
		require.Equal(t, 0, Compare(Hash{3, 3}, Hash{3, 3}))
	})
}

func TestIngest(t *testing.T) {
	t.Run("credits every position of the game", func(t *testing.T) {
		s := New(7, 6)

		require.NoError(t, s.Ingest("1213141", game.FirstPlayerWins))

		require.Equal(t, 7, s.Len(), "Each ply reaches a new position")
		b := game.NewStandardBoard()
		for _, col := range []int{0, 1, 0, 2, 0, 3, 0} {
			b.Drop(col, b.ToMove())
			tally, ok := s.Find(HashBoard(b))
			require.True(t, ok)
			require.Equal(t, Tally{0, 1, 0}, tally)
		}
	})

	t.Run("mirrored games share records", func(t *testing.T) {
		s := New(7, 6)
		require.NoError(t, s.Ingest("1213141", game.FirstPlayerWins))
		require.NoError(t, s.Ingest("7675747", game.SecondPlayerWins))

		require.Equal(t, 7, s.Len(), "Mirrored game should not add records")
		tally, ok := s.Find(Canonical(Hash{1, 0, 0, 0, 0, 0, 0}))
		require.True(t, ok)
		require.Equal(t, Tally{0, 1, 1}, tally)
		require.Equal(t, int64(2), s.Games())
	})

	t.Run("keeps records sorted", func(t *testing.T) {
		s := New(7, 6)
		rng := rand.New(rand.NewPCG(3, 4))
		for i := 0; i < 300; i++ {
			position, outcome := randomGame(rng)
			require.NoError(t, s.Ingest(position, outcome))
		}
		records := s.Records()
		for i := 1; i < len(records); i++ {
			require.Negative(t, Compare(records[i-1].Hash, records[i].Hash), "Records must be strictly ascending")
		}
		require.Equal(t, int64(300), s.Games())
	})

	t.Run("rejects bad input without touching the store", func(t *testing.T) {
		s := New(7, 6)
		require.ErrorIs(t, s.Ingest("44", game.InProgress), ErrInvalidOutcome)
		require.Error(t, s.Ingest("4x", game.Tie))
		require.Error(t, s.Ingest("8", game.Tie))
		require.Error(t, s.Ingest("1111111", game.Tie), "Seventh disc overflows the column")
		require.Equal(t, 0, s.Len())
	})
}

func TestLookup(t *testing.T) {
	t.Run("samples an outcome seen during ingestion", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(5, 6))
		s := New(7, 6, WithSource(rand.NewPCG(7, 8)))
		for i := 0; i < 50; i++ {
			position, outcome := randomGame(rng)
			require.NoError(t, s.Ingest(position, outcome))

			b := game.NewStandardBoard()
			moves, err := game.ParsePosition(position, 7)
			require.NoError(t, err)
			for _, col := range moves {
				b.Drop(col, b.ToMove())
				tally, ok := s.Find(HashBoard(b))
				require.True(t, ok)
				require.Positive(t, tally[outcome], "Visited positions should record the final outcome")

				sampled, ok := s.Lookup(b)
				require.True(t, ok)
				require.Positive(t, tally[sampled], "Sampled outcome must have a nonzero tally")
			}
		}
	})

	t.Run("samples in proportion to the tally", func(t *testing.T) {
		s := New(7, 6, WithSource(rand.NewPCG(9, 10)))
		for i := 0; i < 3; i++ {
			require.NoError(t, s.Ingest("4", game.FirstPlayerWins))
		}
		require.NoError(t, s.Ingest("4", game.Tie))
		b, _, err := game.Setup(7, 6, "4")
		require.NoError(t, err)

		counts := map[game.Outcome]int{}
		for i := 0; i < 4000; i++ {
			outcome, ok := s.Lookup(b)
			require.True(t, ok)
			counts[outcome]++
		}
		require.Zero(t, counts[game.SecondPlayerWins], "Unseen outcome should never be sampled")
		require.InDelta(t, 0.75, float64(counts[game.FirstPlayerWins])/4000, 0.05)
	})

	t.Run("misses unknown positions", func(t *testing.T) {
		s := New(7, 6)
		require.NoError(t, s.Ingest("4", game.Tie))
		b, _, err := game.Setup(7, 6, "1")
		require.NoError(t, err)
		_, ok := s.Lookup(b)
		require.False(t, ok)
	})
}

type sliceSource struct {
	lines []string
	count int
	i     int
}

func (s *sliceSource) Count() (int, error) { return s.count, nil }
func (s *sliceSource) Scan() bool {
	if s.i >= len(s.lines) {
		return false
	}
	s.i++
	return true
}
func (s *sliceSource) Text() string { return s.lines[s.i-1] }
func (s *sliceSource) Err() error   { return nil }

type sliceSink struct {
	lines  []string
	closed bool
}

func (s *sliceSink) WriteLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}
func (s *sliceSink) Close() error {
	s.closed = true
	return nil
}

func TestSaveLoad(t *testing.T) {
	trained := func(t *testing.T) *Store {
		s := New(7, 6)
		rng := rand.New(rand.NewPCG(11, 12))
		for i := 0; i < 100; i++ {
			position, outcome := randomGame(rng)
			require.NoError(t, s.Ingest(position, outcome))
		}
		return s
	}

	t.Run("round trip reproduces every tally", func(t *testing.T) {
		s := trained(t)
		sink := &sliceSink{}

		require.NoError(t, s.Save(sink))
		require.True(t, sink.closed, "Save should close the sink")
		require.Len(t, sink.lines, s.Len())

		loaded, err := Load(&sliceSource{lines: sink.lines, count: len(sink.lines)}, 7, 6)
		require.NoError(t, err)
		require.Equal(t, s.Records(), loaded.Records())
	})

	t.Run("formats records as space separated integers", func(t *testing.T) {
		line := FormatRecord(Record{Hash: Hash{1, 0, 0, 25, 0, 0, 0}, Tally: Tally{3, 4, 5}})
		require.Equal(t, "1 0 0 25 0 0 0 3 4 5", line)
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		for _, line := range []string{
			"1 0 0 0 0 0 0 1 1",
			"1 0 0 0 0 0 0 1 1 1 1",
			"1 0 0 x 0 0 0 1 1 1",
			"1 0 0 0 0 0 0 1 -1 1",
			"1 0 0 9999 0 0 0 1 1 1",
		} {
			_, err := Load(&sliceSource{lines: []string{line}, count: 1}, 7, 6)
			require.ErrorIs(t, err, ErrMalformedRecord, "Line %q should fail the load", line)
		}
	})

	t.Run("rejects a line count mismatch", func(t *testing.T) {
		lines := []string{"0 0 0 1 0 0 0 1 0 0", "1 0 0 0 0 0 0 0 1 0"}
		_, err := Load(&sliceSource{lines: lines, count: 3}, 7, 6)
		require.ErrorIs(t, err, ErrLineCount)
		_, err = Load(&sliceSource{lines: lines, count: 1}, 7, 6)
		require.ErrorIs(t, err, ErrLineCount)
	})

	t.Run("rejects unsorted records", func(t *testing.T) {
		lines := []string{"1 0 0 0 0 0 0 0 1 0", "0 0 0 1 0 0 0 1 0 0"}
		_, err := Load(&sliceSource{lines: lines, count: 2}, 7, 6)
		require.ErrorIs(t, err, ErrUnsorted)
	})

	t.Run("file round trip names the file by record count", func(t *testing.T) {
		s := trained(t)
		base := filepath.Join(t.TempDir(), "c4.states")

		path, err := s.SaveFile(base)
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(path, FileName("", s.Len())), "File name should end with the record count")

		loaded, err := LoadFile(path, 7, 6)
		require.NoError(t, err)
		require.Equal(t, s.Records(), loaded.Records())
	})
}

func TestGameLog(t *testing.T) {
	t.Run("ingesting a log matches ingesting its games", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(13, 14))
		rows := []GameRow{}
		direct := New(7, 6)
		for i := 0; i < 40; i++ {
			position, outcome := randomGame(rng)
			rows = append(rows, GameRow{Position: position, Outcome: int32(outcome), Plies: int32(len(position)), Source: "test"})
			require.NoError(t, direct.Ingest(position, outcome))
		}
		path := filepath.Join(t.TempDir(), "games.parquet")
		require.NoError(t, WriteGameLog(path, rows))

		read, err := ReadGameLog(path)
		require.NoError(t, err)
		require.Equal(t, rows, read)

		fromLog := New(7, 6)
		n, err := fromLog.IngestLog(path)
		require.NoError(t, err)
		require.Equal(t, len(rows), n)
		require.Equal(t, direct.Records(), fromLog.Records())
	})
}
