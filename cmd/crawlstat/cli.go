package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/crawl"
	crawlhttp "github.com/fwojciec/crawlstat/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  *crawlstat.Config
	DataDir string

	// Set only for the crawl command.
	Fetcher  crawlstat.Fetcher
	Robots   crawlstat.RobotsPolicy
	Sitemaps crawlstat.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"CRAWLSTAT_CONFIG" help:"YAML config file"`
	Verbose bool   `short:"v" help:"Log fetches and page processing to stderr"`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl from seed URLs and save statistics"`
	Report  ReportCmd  `cmd:"" help:"Print the report for saved statistics"`
	Check   CheckCmd   `cmd:"" help:"Show whether URLs would be crawled"`
	History HistoryCmd `cmd:"" help:"List crawls saved in the database"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds       []string      `arg:"" optional:"" help:"Seed URLs (default: config seeds)"`
	Stopwords   string        `type:"path" env:"CRAWLSTAT_STOPWORDS" help:"Stop-word file, one word per line"`
	Snapshot    string        `type:"path" env:"CRAWLSTAT_SNAPSHOT" help:"Snapshot file to write"`
	DB          string        `name:"db" type:"path" env:"CRAWLSTAT_DB" help:"Also save the crawl to this SQLite database"`
	MaxPages    int           `short:"n" help:"Stop after this many fetches (0 = unbounded)"`
	Concurrency int           `short:"c" help:"Concurrent fetch limit"`
	Delay       time.Duration `help:"Minimum delay between requests to one host"`
	UserAgent   string        `name:"user-agent" help:"User-Agent sent with every request"`
	NoSitemaps  bool          `name:"no-sitemaps" help:"Do not seed from sitemaps"`
	Quiet       bool          `short:"q" help:"Only print the summary"`
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	Format   string `enum:"text,markdown" default:"text" help:"Output format (text, markdown)"`
	Top      int    `default:"50" help:"Number of most common words to show"`
	Snapshot string `type:"path" env:"CRAWLSTAT_SNAPSHOT" help:"Snapshot file to read"`
	DB       string `name:"db" type:"path" env:"CRAWLSTAT_DB" help:"Read from this SQLite database instead of the snapshot file"`
	ID       string `name:"id" help:"Crawl ID to report (database only, default: latest)"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URLs []string `arg:"" name:"url" help:"URLs to check"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	DB     string `name:"db" type:"path" env:"CRAWLSTAT_DB" help:"SQLite database to read"`
	Limit  int    `default:"20" help:"Maximum number of crawls to list"`
	Delete string `help:"Delete the crawl with this ID instead of listing"`
}

// userAgent resolves the User-Agent from the flag, then the config.
func (c *CrawlCmd) userAgent(cfg *crawlstat.Config) string {
	return firstNonEmpty(c.UserAgent, cfg.UserAgent, crawlhttp.DefaultUserAgent)
}

// snapshotPath resolves where the JSON snapshot lives: flag or env first,
// then the config file, then the data directory.
func snapshotPath(flag string, deps *Dependencies) string {
	return firstNonEmpty(flag, deps.Config.Snapshot, filepath.Join(deps.DataDir, "snapshot.json"))
}

// dbPath resolves the SQLite database path. Empty means no database.
func dbPath(flag string, deps *Dependencies) string {
	return firstNonEmpty(flag, deps.Config.Database)
}

// newFilter builds the trap and scope filter described by cfg.
func newFilter(cfg *crawlstat.Config) *crawl.Filter {
	return crawl.NewFilter(crawl.FilterConfig{
		Scope:                cfg.Scope,
		BlockedHostFragments: append(append([]string{}, crawl.DefaultBlockedHostFragments...), cfg.BlockedHosts...),
		BlockedExtensions:    cfg.BlockedExtensions,
		MaxURLLength:         cfg.MaxURLLength,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive[T int | time.Duration](values ...T) T {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
