package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/crawl"
	"github.com/fwojciec/crawlstat/fs"
	"github.com/fwojciec/crawlstat/goquery"
	crawlslog "github.com/fwojciec/crawlstat/slog"
	"github.com/fwojciec/crawlstat/sqlite"
	"golang.org/x/sync/errgroup"
)

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 70

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	seeds := c.Seeds
	if len(seeds) == 0 {
		seeds = cfg.Seeds
	}

	stopwordsPath := firstNonEmpty(c.Stopwords, cfg.Stopwords, filepath.Join(deps.DataDir, "stopwords.txt"))
	stopwords, err := fs.LoadStopwords(stopwordsPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: Use --stopwords or CRAWLSTAT_STOPWORDS to point at a stop-word file")
		return err
	}

	filter := newFilter(cfg)
	stats := crawl.NewAggregator(cfg.Scope, stopwords)
	scraper := crawl.NewScraper(goquery.NewExtractor(), filter, stats)

	crawler := &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Processor:   crawlslog.NewLoggingProcessor(scraper, deps.Logger),
		Filter:      filter,
		Robots:      deps.Robots,
		RateLimiter: crawl.NewDomainLimiter(firstPositive(c.Delay, cfg.Delay, crawl.DefaultPolitenessDelay)),
		Sitemaps:    deps.Sitemaps,
		Concurrency: firstPositive(c.Concurrency, cfg.Concurrency),
		MaxPages:    firstPositive(c.MaxPages, cfg.MaxPages),
	}

	var progress crawl.ProgressFunc
	if !c.Quiet {
		progress = func(event crawl.ProgressEvent) {
			c.printProgress(deps, event)
		}
	}

	result, err := crawler.Crawl(deps.Ctx, seeds, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		return err
	}

	// Statistics from an interrupted crawl are still saved.
	snap := stats.Snapshot()
	saveCtx := context.WithoutCancel(deps.Ctx)
	jsonPath := snapshotPath(c.Snapshot, deps)
	if err := c.save(saveCtx, deps, snap, jsonPath, dbPath(c.DB, deps)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to save statistics: %v\n", err)
		return err
	}

	if result.Interrupted {
		fmt.Fprintln(deps.Stdout, "Crawl interrupted.")
	}
	fmt.Fprintf(deps.Stdout, "Fetched %d pages (%d failed, %d disallowed by robots.txt)\n",
		result.Fetched, result.Failed, result.Disallowed)
	fmt.Fprintf(deps.Stdout, "Unique pages: %d\n", len(snap.UniquePages))
	fmt.Fprintf(deps.Stdout, "Snapshot saved to %s\n", jsonPath)
	return nil
}

// save writes the snapshot to the JSON file and, when a database path is
// set, to SQLite. Both writes run concurrently.
func (c *CrawlCmd) save(ctx context.Context, deps *Dependencies, snap *crawlstat.Snapshot, jsonPath, db string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		store := crawlslog.NewLoggingSnapshotStore(fs.NewSnapshotStore(jsonPath), deps.Logger, "file")
		return store.SaveSnapshot(gctx, snap)
	})

	if db != "" {
		g.Go(func() error {
			conn, err := openDB(db)
			if err != nil {
				return err
			}
			defer conn.Close()

			store := crawlslog.NewLoggingSnapshotStore(sqlite.NewSnapshotStore(conn), deps.Logger, "sqlite")
			return store.SaveSnapshot(gctx, snap)
		})
	}

	return g.Wait()
}

func (c *CrawlCmd) printProgress(deps *Dependencies, event crawl.ProgressEvent) {
	url := crawl.TruncateURL(event.URL, progressURLWidth)
	switch event.Type {
	case crawl.ProgressFetched:
		fmt.Fprintf(deps.Stdout, "  %d %s (+%d links, %d queued)\n", event.Status, url, event.Links, event.Queued)
	case crawl.ProgressFailed:
		fmt.Fprintf(deps.Stdout, "  ERR %s: %v\n", url, event.Error)
	case crawl.ProgressDisallowed:
		fmt.Fprintf(deps.Stdout, "  SKIP %s (robots.txt)\n", url)
	}
}

// openDB opens the SQLite database, creating its directory if needed.
func openDB(path string) (*sqlite.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return db, nil
}
