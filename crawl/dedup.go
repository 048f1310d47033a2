package crawl

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/crawlstat"
)

// ComputeFingerprint digests page text with xxhash64.
func ComputeFingerprint(text string) crawlstat.Fingerprint {
	return crawlstat.Fingerprint(xxhash.Sum64String(text))
}

// DuplicateDetector suppresses pages whose extracted text has been seen
// before. The fingerprint set only grows. It is safe for concurrent use.
type DuplicateDetector struct {
	mu   sync.Mutex
	seen map[crawlstat.Fingerprint]struct{}
}

// NewDuplicateDetector creates an empty detector.
func NewDuplicateDetector() *DuplicateDetector {
	return &DuplicateDetector{
		seen: make(map[crawlstat.Fingerprint]struct{}),
	}
}

// Seen reports whether text is an exact repeat. A first sighting is recorded,
// so of two pages with identical text exactly one call returns false.
func (d *DuplicateDetector) Seen(text string) bool {
	fp := ComputeFingerprint(text)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[fp]; ok {
		return true
	}
	d.seen[fp] = struct{}{}
	return false
}

// Len returns the number of distinct fingerprints recorded.
func (d *DuplicateDetector) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
