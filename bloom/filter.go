// Package bloom provides probabilistic set membership for crawl bookkeeping.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by strings such as URLs.
// It is not safe for concurrent use; callers hold their own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// TestAndAdd records the key and reports whether it might already have been
// present before the call.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
