package logbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/notchtrack/notchtrack/internal/files"
)

const filePermissions = 0o644

// Store reads and replaces day files inside a log directory.
type Store struct {
	logger *slog.Logger
}

// NewStore wires a Store. A nil logger falls back to slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Path returns the day file for day inside dir.
func (s *Store) Path(dir string, day time.Time) string {
	return files.DayFile(dir, day)
}

// Load returns the finished entries recorded for day. A missing file is an
// empty day, not an error. Malformed records are logged and skipped.
func (s *Store) Load(ctx context.Context, dir string, day time.Time) ([]Entry, error) {
	if dir == "" {
		return nil, errors.New("log directory not set")
	}

	path := s.Path(dir, day)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read day file: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	for _, skipped := range doc.Skipped {
		s.logger.WarnContext(ctx, "skipping malformed entry",
			slog.String("path", path),
			slog.Int("index", skipped.Index),
			slog.Int("line", skipped.Line),
			slog.String("error", skipped.Err.Error()),
		)
	}
	return doc.Entries, nil
}

// Save replaces the day file for day with entries.
func (s *Store) Save(ctx context.Context, dir string, day time.Time, entries []Entry) error {
	if dir == "" {
		return errors.New("log directory not set")
	}

	data, err := Encode(entries)
	if err != nil {
		return err
	}

	path := s.Path(dir, day)
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("write day file: %w", err)
	}
	s.logger.DebugContext(ctx, "saved entries", slog.String("path", path), slog.Int("count", len(entries)))
	return nil
}

// writeFile swaps the new content in through a temp file in the same
// directory so a crash never leaves a half-written day file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".notchtrack-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
