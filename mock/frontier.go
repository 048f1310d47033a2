package mock

import (
	"context"

	"github.com/fwojciec/crawlstat"
)

var _ crawlstat.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of crawlstat.URLFrontier.
type URLFrontier struct {
	PushFn func(url string) bool
	PopFn  func() (string, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(url string) bool {
	return f.PushFn(url)
}

func (f *URLFrontier) Pop() (string, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ crawlstat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of crawlstat.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
