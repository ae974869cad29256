package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pbaille/moodlog/internal/domain"
)

// Record layout, one entry per row. Export writes the identical layout so
// exported files re-import without transformation.
var header = []string{"date", "mood", "activities", "notes", "sentiment_score"}

// activityDelim separates activities inside the third field.
const activityDelim = ";"

// ErrCorrupt reports a data file that is unreadable as a whole. Callers
// treat it as a warning: Entries still returns a usable (empty) history.
var ErrCorrupt = errors.New("mood data file is unreadable")

// Scorer computes the sentiment score stored with each entry.
type Scorer interface {
	Score(notes string) float64
}

// Store handles durable storage of the mood entry history.
type Store struct {
	path   string
	vocab  domain.Vocabulary
	scorer Scorer
	clock  clockwork.Clock
}

// New creates a Store backed by the file at path, ensuring the directory
// and a header-only file exist. Opening an existing store never fails on
// "already exists". A nil clock means the real clock.
func New(path string, vocab domain.Vocabulary, scorer Scorer, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Store{path: path, vocab: vocab, scorer: scorer, clock: clock}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync data file: %w", err)
	}
	return nil
}

// AddEntry validates the mood, scores the notes, appends the entry durably
// and returns it. Validation failures leave the stored history untouched.
//
// The append is a single record written through O_APPEND and fsynced: a
// crash mid-write can at worst truncate the final row, which the strict
// row decoder then skips, so prior entries are never corrupted.
func (s *Store) AddEntry(mood string, activities []string, notes string) (*domain.Entry, error) {
	m, err := s.vocab.Normalize(mood)
	if err != nil {
		return nil, err
	}

	entry := domain.Entry{
		Timestamp:  s.clock.Now(),
		Mood:       m,
		Activities: domain.NormalizeActivities(activities),
		Notes:      strings.TrimSpace(notes),
	}
	if s.scorer != nil {
		entry.SentimentScore = s.scorer.Score(entry.Notes)
	}

	if err := s.ensureFile(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeRecord(entry)); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync data file: %w", err)
	}

	return &entry, nil
}

// Entries reads the full history in storage order (oldest first). Rows
// that fail to decode are skipped individually; their count is returned so
// callers can surface a warning. The error is advisory: when the file is
// unreadable as a whole it wraps ErrCorrupt and the history degrades to
// empty rather than failing the caller.
func (s *Store) Entries() ([]domain.Entry, int, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// Missing store recovers locally: recreate and report empty.
		if err := s.ensureFile(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var entries []domain.Entry
	skipped := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row; the reader resumes on the next line.
			skipped++
			continue
		}
		entry, err := s.decodeRecord(rec)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

// Export writes the current readable history to dst in the store's record
// format, overwriting dst if present. The primary store is not touched.
// The write goes to a temp file in dst's directory and is renamed into
// place, so a crash leaves at worst the prior version of dst.
func (s *Store) Export(dst string) error {
	entries, _, err := s.Entries()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".moodlog-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(encodeRecord(e)); err != nil {
			return fmt.Errorf("write export record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync export: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("chmod export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

func encodeRecord(e domain.Entry) []string {
	return []string{
		e.Timestamp.Format(time.RFC3339),
		string(e.Mood),
		strings.Join(e.Activities, activityDelim),
		e.Notes,
		strconv.FormatFloat(e.SentimentScore, 'f', -1, 64),
	}
}

// decodeRecord strictly decodes one row. Any shape, date, vocabulary or
// score-range violation rejects the row.
func (s *Store) decodeRecord(rec []string) (domain.Entry, error) {
	if len(rec) != len(header) {
		return domain.Entry{}, fmt.Errorf("want %d fields, got %d", len(header), len(rec))
	}

	ts, err := parseTimestamp(rec[0])
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse date %q: %w", rec[0], err)
	}

	mood, err := s.vocab.Normalize(rec[1])
	if err != nil {
		return domain.Entry{}, err
	}

	var activities []string
	if rec[2] != "" {
		activities = domain.NormalizeActivities(strings.Split(rec[2], activityDelim))
	}

	score, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("parse score %q: %w", rec[4], err)
	}
	if score < -1 || score > 1 {
		return domain.Entry{}, fmt.Errorf("score %v out of range [-1, 1]", score)
	}

	return domain.Entry{
		Timestamp:      ts,
		Mood:           mood,
		Activities:     activities,
		Notes:          rec[3],
		SentimentScore: score,
	}, nil
}

// parseTimestamp accepts RFC 3339 or a bare ISO date, so files written by
// hand or by older versions of the format import cleanly.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
