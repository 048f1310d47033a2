package crawl

import "github.com/fwojciec/crawlstat"

// Content guard thresholds.
const (
	// DefaultMaxPageBytes is the largest body counted towards statistics.
	DefaultMaxPageBytes = 1_000_000
	// DefaultMinPageWords is the fewest words a page needs to be counted.
	DefaultMinPageWords = 50
)

// ContentGuard rejects low-information or oversized pages before they
// reach the duplicate detector and the aggregator.
type ContentGuard struct {
	MaxBytes int
	MinWords int
}

// NewContentGuard returns a guard with the default thresholds.
func NewContentGuard() ContentGuard {
	return ContentGuard{
		MaxBytes: DefaultMaxPageBytes,
		MinWords: DefaultMinPageWords,
	}
}

// Check returns the reason the page must not be counted, or ReasonNone.
// words is the number of whitespace-delimited words in the extracted text.
func (g ContentGuard) Check(resp *crawlstat.PageResponse, words int) crawlstat.Reason {
	switch {
	case resp == nil || !resp.Success():
		return crawlstat.ReasonStatus
	case len(resp.Body) == 0:
		return crawlstat.ReasonEmpty
	case g.MaxBytes > 0 && len(resp.Body) > g.MaxBytes:
		return crawlstat.ReasonTooLarge
	case words < g.MinWords:
		return crawlstat.ReasonThin
	}
	return crawlstat.ReasonNone
}
