package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/crawl"
	"github.com/fwojciec/crawlstat/goquery"
	"github.com/fwojciec/crawlstat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteGraph maps a page URL to the links its processor returns.
type siteGraph map[string][]string

// newGraphCrawler builds a crawler whose fetcher serves every URL with 200
// and whose processor follows graph. Visited URLs are appended to visits.
func newGraphCrawler(graph siteGraph, visits *[]string) *crawl.Crawler {
	var mu sync.Mutex
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawlstat.PageResponse, error) {
				return &crawlstat.PageResponse{URL: url, StatusCode: 200, Body: []byte("<p>ok</p>")}, nil
			},
		},
		Processor: &mock.PageProcessor{
			ProcessFn: func(url string, _ *crawlstat.PageResponse) []string {
				mu.Lock()
				*visits = append(*visits, url)
				mu.Unlock()
				return graph[url]
			},
		},
	}
}

func TestCrawler_Crawl_requires_seeds(t *testing.T) {
	t.Parallel()

	c := &crawl.Crawler{}

	_, err := c.Crawl(context.Background(), nil, nil)

	require.Error(t, err)
	assert.Equal(t, crawlstat.EINVALID, crawlstat.ErrorCode(err))
}

func TestCrawler_Crawl_rejects_invalid_seed(t *testing.T) {
	t.Parallel()

	c := &crawl.Crawler{}

	_, err := c.Crawl(context.Background(), []string{"://bad"}, nil)

	require.Error(t, err)
	assert.Equal(t, crawlstat.EINVALID, crawlstat.ErrorCode(err))
}

func TestCrawler_Crawl_visits_breadth_first(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/b", "https://www.ics.uci.edu/c"},
		"https://www.ics.uci.edu/b": {"https://www.ics.uci.edu/d", "https://www.ics.uci.edu/a"},
		"https://www.ics.uci.edu/c": {"https://www.ics.uci.edu/b/"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.ics.uci.edu/a",
		"https://www.ics.uci.edu/b",
		"https://www.ics.uci.edu/c",
		"https://www.ics.uci.edu/d",
	}, visits)
	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 4, result.Enqueued)
	assert.False(t, result.Interrupted)
}

func TestCrawler_Crawl_stops_at_max_pages(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/b", "https://www.ics.uci.edu/c", "https://www.ics.uci.edu/d"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)
	c.MaxPages = 2
	c.Concurrency = 4

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Len(t, visits, 2)
}

func TestCrawler_Crawl_counts_fetch_failures(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/broken", "https://www.ics.uci.edu/c"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)
	c.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*crawlstat.PageResponse, error) {
			if url == "https://www.ics.uci.edu/broken" {
				return nil, errors.New("connection reset")
			}
			return &crawlstat.PageResponse{URL: url, StatusCode: 200, Body: []byte("ok")}, nil
		},
	}

	var failed []crawl.ProgressEvent
	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, func(e crawl.ProgressEvent) {
		if e.Type == crawl.ProgressFailed {
			failed = append(failed, e)
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, failed, 1)
	assert.Equal(t, "https://www.ics.uci.edu/broken", failed[0].URL)
	assert.EqualError(t, failed[0].Error, "connection reset")
	assert.NotContains(t, visits, "https://www.ics.uci.edu/broken")
}

func TestCrawler_Crawl_skips_disallowed_urls(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/private/x", "https://www.ics.uci.edu/c"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)

	var fetched []string
	fetcher := c.Fetcher.(*mock.Fetcher)
	inner := fetcher.FetchFn
	fetcher.FetchFn = func(ctx context.Context, url string) (*crawlstat.PageResponse, error) {
		fetched = append(fetched, url)
		return inner(ctx, url)
	}
	c.Robots = &mock.RobotsPolicy{
		AllowedFn: func(_ context.Context, url string) bool {
			return url != "https://www.ics.uci.edu/private/x"
		},
	}

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Disallowed)
	assert.Equal(t, 2, result.Fetched)
	assert.NotContains(t, fetched, "https://www.ics.uci.edu/private/x")
}

func TestCrawler_Crawl_waits_on_rate_limiter_per_host(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.cs.uci.edu/b"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)

	var hosts []string
	c.RateLimiter = &mock.DomainLimiter{
		WaitFn: func(_ context.Context, host string) error {
			hosts = append(hosts, host)
			return nil
		},
	}

	_, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"www.ics.uci.edu", "www.cs.uci.edu"}, hosts)
}

func TestCrawler_Crawl_seeds_from_sitemaps(t *testing.T) {
	t.Parallel()

	var visits []string
	c := newGraphCrawler(siteGraph{}, &visits)
	c.Filter = crawl.NewFilter(crawl.DefaultFilterConfig())
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
			assert.Equal(t, "https://www.ics.uci.edu", baseURL)
			return []string{
				"https://www.ics.uci.edu/about.html",
				"https://www.example.com/elsewhere",
				"https://www.ics.uci.edu/files/slides.pdf",
				"https://www.ics.uci.edu",
			}, nil
		},
	}

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.ics.uci.edu",
		"https://www.ics.uci.edu/about.html",
	}, visits)
	assert.Equal(t, 2, result.Enqueued)
}

func TestCrawler_Crawl_ignores_sitemap_errors(t *testing.T) {
	t.Parallel()

	var visits []string
	c := newGraphCrawler(siteGraph{}, &visits)
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
			return nil, errors.New("sitemap unavailable")
		},
	}

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Fetched)
}

func TestCrawler_Crawl_cancellation_returns_partial_result(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/b", "https://www.ics.uci.edu/c"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)
	processor := c.Processor.(*mock.PageProcessor)
	inner := processor.ProcessFn
	processor.ProcessFn = func(url string, resp *crawlstat.PageResponse) []string {
		defer cancel()
		return inner(url, resp)
	}

	result, err := c.Crawl(ctx, []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.True(t, result.Interrupted)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, []string{"https://www.ics.uci.edu/a"}, visits)
}

func TestCrawler_Crawl_reports_progress(t *testing.T) {
	t.Parallel()

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/b"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)

	var events []crawl.ProgressEvent
	_, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, func(e crawl.ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, crawl.ProgressFetched, events[0].Type)
	assert.Equal(t, "https://www.ics.uci.edu/a", events[0].URL)
	assert.Equal(t, 200, events[0].Status)
	assert.Equal(t, 1, events[0].Links)
	assert.Equal(t, 1, events[0].Queued)

	assert.Equal(t, crawl.ProgressFetched, events[1].Type)
	assert.Equal(t, 0, events[1].Queued)

	assert.Equal(t, crawl.ProgressFinished, events[2].Type)
}

func TestCrawler_Crawl_with_scraper(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://www.ics.uci.edu/":       `<html><body><p>` + words(60) + `</p><a href="/people">people</a><a href="/files/a.pdf">pdf</a></body></html>`,
		"https://www.ics.uci.edu/people": `<html><body><p>` + words(80) + ` faculty</p><a href="/">home</a></body></html>`,
	}

	scraper, stats := newTestScraper(goquery.NewExtractor())
	filter := crawl.NewFilter(crawl.DefaultFilterConfig())
	c := &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawlstat.PageResponse, error) {
				body, ok := pages[url]
				if !ok {
					return &crawlstat.PageResponse{URL: url, StatusCode: 404, Error: "404 Not Found"}, nil
				}
				return &crawlstat.PageResponse{URL: url, StatusCode: 200, Body: []byte(body)}, nil
			},
		},
		Processor: scraper,
		Filter:    filter,
	}

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/"}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, stats.UniquePages())
	assert.Equal(t, "https://www.ics.uci.edu/people", stats.LongestPage().URL)
	assert.Equal(t, 1, stats.WordCount("faculty"))
}

func TestCrawler_Crawl_uses_provided_frontier(t *testing.T) {
	t.Parallel()

	var pushed []string
	queue := []string{}
	frontier := &mock.URLFrontier{
		PushFn: func(url string) bool {
			pushed = append(pushed, url)
			queue = append(queue, url)
			return true
		},
		PopFn: func() (string, bool) {
			if len(queue) == 0 {
				return "", false
			}
			u := queue[0]
			queue = queue[1:]
			return u, true
		},
		LenFn: func() int { return len(queue) },
	}

	graph := siteGraph{
		"https://www.ics.uci.edu/a": {"https://www.ics.uci.edu/b"},
	}
	var visits []string
	c := newGraphCrawler(graph, &visits)
	c.Frontier = frontier

	result, err := c.Crawl(context.Background(), []string{"https://www.ics.uci.edu/a"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.ics.uci.edu/a", "https://www.ics.uci.edu/b"}, pushed)
	assert.Equal(t, visits, pushed)
	assert.Equal(t, 2, result.Fetched)
}
