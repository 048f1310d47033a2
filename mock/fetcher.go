package mock

import (
	"context"

	"github.com/fwojciec/crawlstat"
)

var _ crawlstat.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of crawlstat.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*crawlstat.PageResponse, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*crawlstat.PageResponse, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
