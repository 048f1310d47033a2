package crawl

import (
	"sync"

	"github.com/fwojciec/crawlstat"
	"github.com/fwojciec/crawlstat/bloom"
)

// Compile-time interface verification.
var _ crawlstat.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL queue with Bloom filter deduplication.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []string
	head  int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds a URL to the back of the queue.
// Returns false if the URL has already been seen. URLs differing only by
// fragment or trailing slash are considered the same.
func (f *Frontier) Push(rawURL string) bool {
	key := PageKey(rawURL)
	if key == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(key) {
		return false
	}
	f.queue = append(f.queue, rawURL)
	return true
}

// Pop returns the URL that has waited longest.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head >= len(f.queue) {
		return "", false
	}
	u := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]string(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return u, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the URL has been queued before.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(PageKey(rawURL))
}
