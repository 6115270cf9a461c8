package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// FileName appends the record count to base, e.g. "c4.states.12345", so saved snapshots
// can be told apart at a glance.
func FileName(base string, records int) string {
	return base + "." + strconv.Itoa(records)
}

type fileSource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// OpenFileSource opens a persisted store file for Load. The caller must Close it.
func OpenFileSource(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &fileSource{path: path, file: f, scanner: bufio.NewScanner(f)}, nil
}

// Count makes a separate pass over the file so the main scan stays untouched.
func (f *fileSource) Count() (int, error) {
	counter, err := os.Open(f.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open store file: %w", err)
	}
	defer counter.Close()

	n := 0
	scanner := bufio.NewScanner(counter)
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to count store lines: %w", err)
	}
	return n, nil
}

func (f *fileSource) Scan() bool   { return f.scanner.Scan() }
func (f *fileSource) Text() string { return f.scanner.Text() }
func (f *fileSource) Err() error   { return f.scanner.Err() }
func (f *fileSource) Close() error { return f.file.Close() }

type fileSink struct {
	tmpPath string
	outPath string
	file    *os.File
	writer  *bufio.Writer
}

// CreateFileSink writes to a temporary file that is renamed onto path when closed.
func CreateFileSink(path string) (*fileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp store file: %w", err)
	}
	return &fileSink{tmpPath: tmpPath, outPath: path, file: f, writer: bufio.NewWriter(f)}, nil
}

func (f *fileSink) WriteLine(line string) error {
	if _, err := f.writer.WriteString(line); err != nil {
		return err
	}
	return f.writer.WriteByte('\n')
}

func (f *fileSink) Close() error {
	if f.file == nil {
		return nil
	}
	defer func() { f.file = nil }()
	if err := f.writer.Flush(); err != nil {
		_ = f.file.Close()
		return fmt.Errorf("flush store file: %w", err)
	}
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(f.tmpPath, f.outPath); err != nil {
		return fmt.Errorf("rename store file: %w", err)
	}
	return nil
}

// LoadFile loads a store saved with SaveFile.
func LoadFile(path string, width, height int, options ...Option) (*Store, error) {
	src, err := OpenFileSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	s, err := Load(src, width, height, options...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("records", s.Len()).Msg("restored store")
	return s, nil
}

// SaveFile saves the store under FileName(base, s.Len()) and returns the path written.
func (s *Store) SaveFile(base string) (string, error) {
	path := FileName(base, s.Len())
	sink, err := CreateFileSink(path)
	if err != nil {
		return "", err
	}
	if err := s.Save(sink); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("records", s.Len()).Msg("stored store")
	return path, nil
}
