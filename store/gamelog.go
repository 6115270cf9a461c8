package store

import (
	"fmt"
	"os"
	"path/filepath"

	"connect4/game"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/rs/zerolog/log"
)

// GameRow is one finished game in a self-play log.
//
// Position is the full move string in column-digit notation; Outcome uses the game.Outcome
// codes (0 tie, 1 first player wins, 2 second player wins).
type GameRow struct {
	Position string `parquet:"position"`
	Outcome  int32  `parquet:"outcome"`
	Plies    int32  `parquet:"plies"`
	Source   string `parquet:"source,dict"`
}

// WriteGameLog writes rows to a zstd-compressed parquet file, atomically replacing path.
func WriteGameLog(path string, rows []GameRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "game_row_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadGameLog reads every row of a game log.
func ReadGameLog(path string) ([]GameRow, error) {
	rows, err := parquet.ReadFile[GameRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}

// IngestLog trains the store from every game in a log file and returns how many were ingested.
func (s *Store) IngestLog(path string) (int, error) {
	rows, err := ReadGameLog(path)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if err := s.Ingest(row.Position, game.Outcome(row.Outcome)); err != nil {
			return i, fmt.Errorf("game %d of %s: %w", i+1, path, err)
		}
	}
	log.Info().Str("path", path).Int("games", len(rows)).Int("records", s.Len()).Msg("ingested game log")
	return len(rows), nil
}
