// Package crawl provides the page-processing core of the crawler: link
// normalization, the trap and scope filter, the content guard, duplicate
// detection and statistics aggregation, plus a small crawl driver that
// feeds fetched pages through them.
package crawl

import (
	"context"
	"net/url"

	"github.com/fwojciec/crawlstat"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration for the crawl driver.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 200000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
	// defaultConcurrency is the number of pages fetched at once.
	defaultConcurrency = 1
)

// Crawler drives a crawl: it pops URLs from a frontier, fetches them and
// hands the responses to the page processor, queueing the links it returns.
// Fetch failures are counted and never retried.
type Crawler struct {
	Fetcher     crawlstat.Fetcher
	Processor   crawlstat.PageProcessor
	Filter      *Filter
	Robots      crawlstat.RobotsPolicy
	RateLimiter crawlstat.DomainLimiter
	Sitemaps    crawlstat.SitemapService
	Concurrency int

	// Frontier queues URLs to visit. Nil means a fresh Bloom-filtered
	// Frontier is created for each crawl.
	Frontier crawlstat.URLFrontier

	// MaxPages bounds the number of fetches. Zero means unbounded.
	MaxPages int
}

// Result holds the outcome of a crawl.
type Result struct {
	Fetched    int
	Failed     int
	Disallowed int
	Enqueued   int

	// Interrupted is true when the context ended the crawl early.
	Interrupted bool
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	URL    string
	Status int
	Links  int
	Queued int
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressFetched ProgressType = iota
	ProgressFailed
	ProgressDisallowed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of visiting a single URL.
type pageResult struct {
	url        string
	status     int
	links      []string
	disallowed bool
	err        error
}

// Crawl seeds a frontier and processes pages until the frontier is empty,
// MaxPages is reached or ctx is done. Cancellation is not an error: the
// partial result is returned with Interrupted set.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, progress ProgressFunc) (*Result, error) {
	if len(seeds) == 0 {
		return nil, crawlstat.Errorf(crawlstat.EINVALID, "at least one seed URL required")
	}

	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	var result Result

	for _, seed := range seeds {
		v := NormalizeLink(seed, seed)
		if !v.Accepted() {
			return nil, crawlstat.Errorf(crawlstat.EINVALID, "invalid seed URL %q", seed)
		}
		if frontier.Push(v.URL) {
			result.Enqueued++
		}
	}
	result.Enqueued += c.seedFromSitemaps(ctx, frontier, seeds)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	for ctx.Err() == nil {
		batch := c.nextBatch(frontier, concurrency, result.Fetched+result.Failed+result.Disallowed)
		if len(batch) == 0 {
			break
		}

		results := make([]pageResult, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, u := range batch {
			g.Go(func() error {
				results[i] = c.visit(gctx, u)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			event := ProgressEvent{URL: r.url, Status: r.status, Error: r.err}
			switch {
			case r.disallowed:
				result.Disallowed++
				event.Type = ProgressDisallowed
			case r.err != nil:
				result.Failed++
				event.Type = ProgressFailed
			default:
				result.Fetched++
				event.Type = ProgressFetched
				for _, link := range r.links {
					if frontier.Push(link) {
						result.Enqueued++
					}
				}
				event.Links = len(r.links)
			}
			event.Queued = frontier.Len()
			if progress != nil {
				progress(event)
			}
		}
	}

	result.Interrupted = ctx.Err() != nil
	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Queued: frontier.Len()})
	}
	return &result, nil
}

// seedFromSitemaps queues eligible sitemap URLs for every seed host.
// Sitemap failures only mean fewer seeds.
func (c *Crawler) seedFromSitemaps(ctx context.Context, frontier crawlstat.URLFrontier, seeds []string) int {
	if c.Sitemaps == nil {
		return 0
	}
	var n int
	for _, seed := range seeds {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, seed)
		if err != nil {
			continue
		}
		for _, u := range urls {
			v := NormalizeLink(u, u)
			if !v.Accepted() {
				continue
			}
			if c.Filter != nil && !c.Filter.Valid(v.URL) {
				continue
			}
			if frontier.Push(v.URL) {
				n++
			}
		}
	}
	return n
}

// nextBatch pops up to size URLs without exceeding MaxPages.
func (c *Crawler) nextBatch(frontier crawlstat.URLFrontier, size, visited int) []string {
	if c.MaxPages > 0 {
		size = min(size, c.MaxPages-visited)
	}
	var batch []string
	for len(batch) < size {
		u, ok := frontier.Pop()
		if !ok {
			break
		}
		batch = append(batch, u)
	}
	return batch
}

// visit fetches one URL and runs it through the processor.
func (c *Crawler) visit(ctx context.Context, rawURL string) pageResult {
	result := pageResult{url: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil {
		result.err = err
		return result
	}

	if c.Robots != nil && !c.Robots.Allowed(ctx, rawURL) {
		result.disallowed = true
		return result
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	resp, err := c.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		result.err = err
		return result
	}
	result.status = resp.StatusCode
	result.links = c.Processor.Process(rawURL, resp)
	return result
}
