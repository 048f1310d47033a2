package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawlstat"
)

// Ensure LoggingSnapshotStore implements crawlstat.SnapshotStore.
var _ crawlstat.SnapshotStore = (*LoggingSnapshotStore)(nil)

// LoggingSnapshotStore wraps a SnapshotStore with logging.
type LoggingSnapshotStore struct {
	next   crawlstat.SnapshotStore
	logger *slog.Logger
	name   string
}

// NewLoggingSnapshotStore creates a new LoggingSnapshotStore. name
// identifies the backend in log lines.
func NewLoggingSnapshotStore(next crawlstat.SnapshotStore, logger *slog.Logger, name string) *LoggingSnapshotStore {
	return &LoggingSnapshotStore{next: next, logger: logger, name: name}
}

// SaveSnapshot delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *crawlstat.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("snapshot save",
			"store", s.name,
			"pages", len(snapshot.UniquePages),
			"words", len(snapshot.WordCounts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveSnapshot(ctx, snapshot)
}

// LoadSnapshot delegates to the wrapped store and logs the operation.
func (s *LoggingSnapshotStore) LoadSnapshot(ctx context.Context) (snapshot *crawlstat.Snapshot, err error) {
	defer func(begin time.Time) {
		var pages int
		if snapshot != nil {
			pages = len(snapshot.UniquePages)
		}
		s.logger.Info("snapshot load",
			"store", s.name,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadSnapshot(ctx)
}
