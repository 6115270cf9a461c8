package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrLineCount       = errors.New("line count mismatch")
	ErrUnsorted        = errors.New("records out of order")
)

// LineSource yields the lines of a persisted store. Count reports the total number of lines
// up front so the store can be pre-sized; Scan/Text/Err then walk them in order.
type LineSource interface {
	Count() (int, error)
	Scan() bool
	Text() string
	Err() error
}

// LineSink accepts the lines of a store being saved. Close returns once every line is written.
type LineSink interface {
	WriteLine(line string) error
	Close() error
}

// FormatRecord renders a record as "h0 .. h(w-1) ties winsA winsB".
func FormatRecord(r Record) string {
	var sb strings.Builder
	for _, v := range r.Hash {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte(' ')
	}
	for i, v := range r.Tally {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	return sb.String()
}

// ParseRecord parses one persisted line for a board of the given width and height.
func ParseRecord(line string, width, height int) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != width+len(Tally{}) {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, width+len(Tally{}), len(fields))
	}
	limit := maxColumnHash(height)
	r := Record{Hash: make(Hash, width)}
	for i := 0; i < width; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return Record{}, fmt.Errorf("%w: column %d: %w", ErrMalformedRecord, i+1, err)
		}
		if v < 0 || v > limit {
			return Record{}, fmt.Errorf("%w: column %d hash %d out of range", ErrMalformedRecord, i+1, v)
		}
		r.Hash[i] = v
	}
	for i := range r.Tally {
		v, err := strconv.ParseInt(fields[width+i], 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: tally %d: %w", ErrMalformedRecord, i, err)
		}
		if v < 0 {
			return Record{}, fmt.Errorf("%w: negative tally %d", ErrMalformedRecord, v)
		}
		r.Tally[i] = v
	}
	return r, nil
}

// maxColumnHash is the encoding of a full column of second-player discs.
func maxColumnHash(height int) int {
	limit, weight := 0, 1
	for i := 0; i < height; i++ {
		limit += 2 * weight
		weight *= 3
	}
	return limit
}

// Load reads a persisted store. Any malformed line, out of order record, or disagreement
// between the reported and actual line counts fails the whole load.
func Load(src LineSource, width, height int, options ...Option) (*Store, error) {
	count, err := src.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count store lines: %w", err)
	}
	s := newStore(width, height, count, options...)
	read := 0
	for src.Scan() {
		read++
		if read > count {
			return nil, fmt.Errorf("%w: reported %d lines, read more", ErrLineCount, count)
		}
		r, err := ParseRecord(src.Text(), width, height)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", read, err)
		}
		if n := len(s.records); n > 0 && Compare(s.records[n-1].Hash, r.Hash) >= 0 {
			return nil, fmt.Errorf("line %d: %w", read, ErrUnsorted)
		}
		s.records = append(s.records, r)
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store lines: %w", err)
	}
	if read != count {
		return nil, fmt.Errorf("%w: reported %d lines, read %d", ErrLineCount, count, read)
	}
	log.Debug().Int("records", len(s.records)).Msg("loaded store")
	return s, nil
}

// Save writes every record in hash order and closes the sink.
func (s *Store) Save(sink LineSink) error {
	for i, r := range s.records {
		if err := sink.WriteLine(FormatRecord(r)); err != nil {
			_ = sink.Close()
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close store sink: %w", err)
	}
	return nil
}
