// Package http provides HTTP implementations of the crawler's fetch layer:
// a page fetcher and a sitemap-based URL source.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/crawlstat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 8 << 20

// DefaultUserAgent identifies the crawler to servers.
const DefaultUserAgent = "crawlstat/1.0"

// Ensure Fetcher implements crawlstat.Fetcher at compile time.
var _ crawlstat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using plain HTTP GET requests.
// Non-2xx responses are not errors: they are returned with their status
// code so the processor can treat them as pages without content.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps how many body bytes are read per response.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url. Redirects are followed and the final
// location is reported in PageResponse.FinalURL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*crawlstat.PageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, err
	}

	page := &crawlstat.PageResponse{
		URL:        url,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	if !page.Success() {
		page.Error = resp.Status
	}
	return page, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
