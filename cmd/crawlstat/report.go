package main

import (
	"fmt"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/crawl"
	"github.com/fwojciec/crawlstat/fs"
	"github.com/fwojciec/crawlstat/markdown"
	crawlslog "github.com/fwojciec/crawlstat/slog"
	"github.com/fwojciec/crawlstat/sqlite"
)

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	snap, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		if crawlstat.ErrorCode(err) == crawlstat.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'crawlstat crawl' first")
		}
		return err
	}

	stats := crawl.NewAggregator(deps.Config.Scope, nil)
	stats.Restore(snap)
	report := stats.Report(c.Top)

	if c.Format == "markdown" {
		return markdown.NewReportWriter().WriteReport(deps.Stdout, report)
	}
	_, err = fmt.Fprint(deps.Stdout, crawlstat.FormatReport(report))
	return err
}

// load reads the snapshot from the database when one is configured,
// otherwise from the snapshot file.
func (c *ReportCmd) load(deps *Dependencies) (*crawlstat.Snapshot, error) {
	path := dbPath(c.DB, deps)
	if path == "" {
		if c.ID != "" {
			return nil, crawlstat.Errorf(crawlstat.EINVALID, "--id requires a database")
		}
		store := crawlslog.NewLoggingSnapshotStore(fs.NewSnapshotStore(snapshotPath(c.Snapshot, deps)), deps.Logger, "file")
		return store.LoadSnapshot(deps.Ctx)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store := sqlite.NewSnapshotStore(db)
	if c.ID != "" {
		return store.FindSnapshotByID(deps.Ctx, c.ID)
	}
	return crawlslog.NewLoggingSnapshotStore(store, deps.Logger, "sqlite").LoadSnapshot(deps.Ctx)
}
