package mock

import "github.com/fwojciec/crawlstat"

var _ crawlstat.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of crawlstat.TextExtractor.
type TextExtractor struct {
	ExtractFn func(body []byte) crawlstat.Extraction
}

func (e *TextExtractor) Extract(body []byte) crawlstat.Extraction {
	return e.ExtractFn(body)
}
