package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/crawlstat"
	"github.com/temoto/robotstxt"
)

// Ensure SitemapService implements crawlstat.SitemapService.
var _ crawlstat.SitemapService = (*SitemapService)(nil)

// Sitemap limits.
const (
	// DefaultMaxSitemapURLs bounds how many seeds one discovery returns.
	DefaultMaxSitemapURLs = 50000

	// DefaultMaxSitemapBytes caps one sitemap document, the protocol maximum.
	DefaultMaxSitemapBytes = 50 << 20

	// maxIndexDepth bounds how deep sitemap indexes may nest.
	maxIndexDepth = 2
)

// SitemapService turns the sitemaps a site advertises into crawl seeds.
// Sitemaps are taken from the Sitemap directives of robots.txt, with
// /sitemap.xml as the fallback.
type SitemapService struct {
	client    *http.Client
	userAgent string
	accept    func(rawURL string) bool
	maxURLs   int
	maxBytes  int64
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithSitemapUserAgent sets the User-Agent header sent for robots.txt and
// sitemap requests.
func WithSitemapUserAgent(ua string) SitemapOption {
	return func(s *SitemapService) {
		s.userAgent = ua
	}
}

// WithSitemapFilter keeps only the URLs accept returns true for. Rejected
// URLs do not count towards the seed limit.
func WithSitemapFilter(accept func(rawURL string) bool) SitemapOption {
	return func(s *SitemapService) {
		s.accept = accept
	}
}

// WithMaxSitemapURLs bounds how many seeds one discovery returns.
func WithMaxSitemapURLs(n int) SitemapOption {
	return func(s *SitemapService) {
		s.maxURLs = n
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	s := &SitemapService{
		client:    client,
		userAgent: DefaultUserAgent,
		maxURLs:   DefaultMaxSitemapURLs,
		maxBytes:  DefaultMaxSitemapBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the seed URLs listed in the sitemaps of seed's host,
// in sitemap order without repeats. Only the host of seed matters: its path
// is ignored. A sitemap that cannot be read is skipped; the error is only
// returned when nothing at all was discovered. A site without sitemaps
// yields an empty slice (not nil).
func (s *SitemapService) DiscoverURLs(ctx context.Context, seed string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid seed URL %q", seed)
	}
	site := &url.URL{Scheme: u.Scheme, Host: u.Host}

	d := &discovery{
		svc:      s,
		sitemaps: make(map[string]struct{}),
		seen:     make(map[string]struct{}),
		urls:     []string{},
	}
	for _, loc := range s.advertisedSitemaps(ctx, site) {
		d.walk(ctx, loc, 0)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.full() {
			break
		}
	}

	if len(d.urls) == 0 && d.err != nil {
		return nil, d.err
	}
	return d.urls, nil
}

// advertisedSitemaps reads the Sitemap directives of the site's robots.txt.
// An unreadable robots.txt or one without directives means /sitemap.xml.
func (s *SitemapService) advertisedSitemaps(ctx context.Context, site *url.URL) []string {
	origin := site.String()
	fallback := []string{origin + "/sitemap.xml"}

	body, err := s.get(ctx, origin+"/robots.txt")
	if err != nil {
		return fallback
	}
	robots, err := robotstxt.FromStatusAndBytes(http.StatusOK, body)
	if err != nil || len(robots.Sitemaps) == 0 {
		return fallback
	}
	return robots.Sitemaps
}

// discovery is the state of one DiscoverURLs call.
type discovery struct {
	svc      *SitemapService
	sitemaps map[string]struct{}
	seen     map[string]struct{}
	urls     []string

	// err is the first failure, kept for when nothing was discovered.
	err error
}

func (d *discovery) full() bool {
	return d.svc.maxURLs > 0 && len(d.urls) >= d.svc.maxURLs
}

func (d *discovery) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// walk reads one sitemap document, following sitemap indexes up to
// maxIndexDepth levels.
func (d *discovery) walk(ctx context.Context, loc string, depth int) {
	if _, ok := d.sitemaps[loc]; ok || depth > maxIndexDepth || ctx.Err() != nil {
		return
	}
	d.sitemaps[loc] = struct{}{}

	root, err := d.svc.document(ctx, loc)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return
		}
		d.fail(err)
		return
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locations(root, "sitemap") {
			if d.full() {
				return
			}
			d.walk(ctx, child, depth+1)
		}
	case "urlset":
		for _, page := range locations(root, "url") {
			if d.full() {
				return
			}
			d.add(page)
		}
	default:
		d.fail(fmt.Errorf("%s: unexpected sitemap root <%s>", loc, root.Tag))
	}
}

func (d *discovery) add(page string) {
	if accept := d.svc.accept; accept != nil && !accept(page) {
		return
	}
	if _, ok := d.seen[page]; ok {
		return
	}
	d.seen[page] = struct{}{}
	d.urls = append(d.urls, page)
}

// locations returns the non-empty <loc> texts of the named children of root.
func locations(root *etree.Element, entry string) []string {
	var locs []string
	for _, el := range root.SelectElements(entry) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			locs = append(locs, text)
		}
	}
	return locs
}

// document fetches and parses one sitemap.
func (s *SitemapService) document(ctx context.Context, loc string) (*etree.Element, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", loc)
	}
	return root, nil
}

type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// get fetches targetURL and reads at most maxBytes of a 200 response.
func (s *SitemapService) get(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{url: targetURL, code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
}
