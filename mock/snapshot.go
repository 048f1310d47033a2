package mock

import (
	"context"

	"github.com/fwojciec/crawlstat"
)

var _ crawlstat.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of crawlstat.SnapshotStore.
type SnapshotStore struct {
	SaveSnapshotFn func(ctx context.Context, snapshot *crawlstat.Snapshot) error
	LoadSnapshotFn func(ctx context.Context) (*crawlstat.Snapshot, error)
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *crawlstat.Snapshot) error {
	return s.SaveSnapshotFn(ctx, snapshot)
}

func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*crawlstat.Snapshot, error) {
	return s.LoadSnapshotFn(ctx)
}
