package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawlstat"
)

// Ensure LoggingFetcher implements crawlstat.Fetcher.
var _ crawlstat.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   crawlstat.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next crawlstat.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the response status.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *crawlstat.PageResponse, err error) {
	defer func(begin time.Time) {
		var status, size int
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
