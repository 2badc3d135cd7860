package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/olympichub/feeds"
)

var (
	ErrUnknownFeed = errors.New("unknown feed")
	ErrNotFound    = errors.New("snapshot not found")
)

// Store persists one JSON snapshot file per feed in a directory. Each write
// replaces the previous file atomically.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	// 0755: the directory is served to the dashboard
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a feed's snapshot lives in.
func (s *Store) Path(feed feeds.Feed) string {
	return filepath.Join(s.dir, feed.FileName())
}

// Write marshals v as indented JSON and replaces the feed's snapshot. The
// data is written to a temporary file first and renamed over the target, so
// a concurrent reader sees either the old or the new file in full.
func (s *Store) Write(feed feeds.Feed, v any) error {
	if !feed.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFeed, feed)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", feed, err)
	}

	target := s.Path(feed)
	tmp := target + ".tmp"

	// 0644: snapshots are public data
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", feed, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s snapshot: %w", feed, err)
	}

	return nil
}

// ReadRaw returns the stored bytes of a feed's snapshot.
func (s *Store) ReadRaw(feed feeds.Feed) ([]byte, error) {
	if !feed.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeed, feed)
	}

	data, err := os.ReadFile(s.Path(feed))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, feed.FileName())
		}
		return nil, fmt.Errorf("failed to read %s snapshot: %w", feed, err)
	}

	return data, nil
}

// Read decodes a feed's snapshot into v.
func (s *Store) Read(feed feeds.Feed, v any) error {
	data, err := s.ReadRaw(feed)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s snapshot: %w", feed, err)
	}

	return nil
}
