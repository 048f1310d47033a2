package mock

import (
	"context"

	"github.com/fwojciec/crawlstat"
)

var _ crawlstat.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of crawlstat.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}

var _ crawlstat.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy is a mock implementation of crawlstat.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
