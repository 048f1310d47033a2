package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/crawlstat"
	crawlhttp "github.com/fwojciec/crawlstat/http"
	"github.com/fwojciec/crawlstat/robotstxt"
	crawlslog "github.com/fwojciec/crawlstat/slog"
	"github.com/fwojciec/crawlstat/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// DataDir holds the default snapshot and stopwords files.
	DataDir string

	// Network services for end-to-end testing. Nil means the real
	// implementation is wired in.
	Fetcher  crawlstat.Fetcher
	Robots   crawlstat.RobotsPolicy
	Sitemaps crawlstat.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		DataDir: m.DataDir,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("crawlstat"),
		kong.Description("Crawl the academic web and report page and word statistics"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'crawlstat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", crawlstat.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	handlerOut := io.Discard
	if cli.Verbose {
		handlerOut = stderr
	}
	deps.Logger = slog.New(slog.NewTextHandler(handlerOut, nil))

	if strings.HasPrefix(kongCtx.Command(), "crawl") {
		m.wireCrawl(deps, &cli.Crawl)
	}

	return kongCtx.Run(deps)
}

// wireCrawl sets up the network services used by the crawl command.
func (m *Main) wireCrawl(deps *Dependencies, cmd *CrawlCmd) {
	userAgent := cmd.userAgent(deps.Config)

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = crawlhttp.NewFetcher(crawlhttp.WithUserAgent(userAgent))
	}
	deps.Fetcher = crawlslog.NewLoggingFetcher(fetcher, deps.Logger)

	robots := m.Robots
	if robots == nil {
		robots = robotstxt.NewPolicy(&http.Client{Timeout: crawlhttp.DefaultFetchTimeout}, userAgent)
	}
	deps.Robots = crawlslog.NewLoggingRobotsPolicy(robots, deps.Logger)

	if cmd.NoSitemaps {
		return
	}
	sitemaps := m.Sitemaps
	if sitemaps == nil {
		sitemaps = crawlhttp.NewSitemapService(nil,
			crawlhttp.WithSitemapUserAgent(userAgent),
			crawlhttp.WithSitemapFilter(newFilter(deps.Config).Valid),
		)
	}
	deps.Sitemaps = crawlslog.NewLoggingSitemapService(sitemaps, deps.Logger)
}

// loadConfig reads the config file when one is given and fills in defaults.
func loadConfig(path string) (*crawlstat.Config, error) {
	cfg := &crawlstat.Config{}
	if path != "" {
		var err error
		if cfg, err = yaml.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.Defaults()
	return cfg, nil
}

func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, "crawlstat")
}
