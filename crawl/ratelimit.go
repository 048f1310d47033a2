package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/crawlstat"
	"golang.org/x/time/rate"
)

var _ crawlstat.DomainLimiter = (*DomainLimiter)(nil)

// DefaultPolitenessDelay is the minimum gap between requests to one host.
const DefaultPolitenessDelay = 500 * time.Millisecond

// DomainLimiter enforces a minimum delay between requests to the same host
// using one token bucket per host. Different hosts proceed independently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing one request per delay
// per host. A non-positive delay disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	every := rate.Inf
	if delay > 0 {
		every = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
	}
}

// Wait blocks until the host may be contacted again.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(d.every, 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
