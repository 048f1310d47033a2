package crawlstat

import "context"

// Fetcher retrieves a page for the crawler.
// Transport failures are returned as errors; HTTP-level failures (non-2xx)
// are reported through PageResponse.StatusCode.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*PageResponse, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// RobotsPolicy decides whether robots.txt permits fetching a URL.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
