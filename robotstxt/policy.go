// Package robotstxt implements crawlstat.RobotsPolicy on top of
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/crawlstat"
	"github.com/temoto/robotstxt"
)

// DefaultCacheTTL is how long parsed rules for a host are reused.
const DefaultCacheTTL = 30 * time.Minute

// Ensure Policy implements crawlstat.RobotsPolicy at compile time.
var _ crawlstat.RobotsPolicy = (*Policy)(nil)

// Policy answers robots.txt questions with rules cached per origin.
// Hosts whose robots.txt cannot be fetched or parsed are treated as
// allowing everything.
type Policy struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	fetched time.Time
	rules   *robotstxt.RobotsData
}

// Option configures a Policy.
type Option func(*Policy)

// WithCacheTTL sets how long rules for a host stay cached.
func WithCacheTTL(d time.Duration) Option {
	return func(p *Policy) {
		p.ttl = d
	}
}

// NewPolicy creates a Policy matching groups for userAgent.
// If client is nil, a client with a 10s timeout is used.
func NewPolicy(client *http.Client, userAgent string, opts ...Option) *Policy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	p := &Policy{
		client:    client,
		userAgent: userAgent,
		ttl:       DefaultCacheTTL,
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allowed reports whether rawURL may be fetched.
func (p *Policy) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || !target.IsAbs() {
		return false
	}

	rules := p.rules(ctx, target)

	group := rules.FindGroup(p.userAgent)
	if group == nil {
		return true
	}
	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return group.Test(path)
}

func (p *Policy) rules(ctx context.Context, target *url.URL) *robotstxt.RobotsData {
	origin := strings.ToLower(target.Scheme + "://" + target.Host)

	p.mu.RLock()
	entry, ok := p.cache[origin]
	p.mu.RUnlock()
	if ok && time.Since(entry.fetched) < p.ttl {
		return entry.rules
	}

	rules, err := p.fetch(ctx, origin)
	if err != nil {
		if ctx.Err() != nil {
			return allowAll()
		}
		rules = allowAll()
	}

	p.mu.Lock()
	p.cache[origin] = cacheEntry{fetched: time.Now(), rules: rules}
	p.mu.Unlock()

	return rules
}

func (p *Policy) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("robots returned status %d", resp.StatusCode)
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// allowAll returns rules that permit every path.
func allowAll() *robotstxt.RobotsData {
	data, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	return data
}
