package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/crawlstat"
)

// Ensure SnapshotStore implements crawlstat.SnapshotStore at compile time.
var _ crawlstat.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the statistics snapshot in a single JSON file.
// Saves are atomic: the snapshot is written next to the target and renamed
// over it, so a reader never sees a partial file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store backed by the file at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

func (s *SnapshotStore) tempPath() string {
	return s.path + ".tmp"
}

// SaveSnapshot writes the snapshot, replacing any previous one.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *crawlstat.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(s.tempPath(), data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		_ = os.Remove(s.tempPath())
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the saved snapshot.
// Returns ENOTFOUND if the file does not exist.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*crawlstat.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, crawlstat.Errorf(crawlstat.ENOTFOUND, "no snapshot at %s; run a crawl first", s.path)
	} else if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot crawlstat.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, crawlstat.Errorf(crawlstat.EINVALID, "corrupt snapshot %s: %v", s.path, err)
	}
	return &snapshot, nil
}
