package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/sqlite"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	path := dbPath(c.DB, deps)
	if path == "" {
		err := crawlstat.Errorf(crawlstat.EINVALID, "no database configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: Use --db or CRAWLSTAT_DB")
		return err
	}

	db, err := openDB(path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer db.Close()

	store := sqlite.NewSnapshotStore(db)

	if c.Delete != "" {
		if err := store.DeleteSnapshot(deps.Ctx, c.Delete); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted crawl %s\n", c.Delete)
		return nil
	}

	infos, err := store.FindSnapshots(deps.Ctx, c.Limit, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls found. Use 'crawlstat crawl --db' to record one.")
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d pages\n", info.ID, info.CreatedAt.Format(time.DateTime), info.UniquePages)
	}
	return nil
}
