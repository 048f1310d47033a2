package mock

import "github.com/fwojciec/crawlstat"

var _ crawlstat.PageProcessor = (*PageProcessor)(nil)

// PageProcessor is a mock implementation of crawlstat.PageProcessor.
type PageProcessor struct {
	ProcessFn func(url string, resp *crawlstat.PageResponse) []string
}

func (p *PageProcessor) Process(url string, resp *crawlstat.PageResponse) []string {
	return p.ProcessFn(url, resp)
}

var _ crawlstat.PageAnalyzer = (*PageAnalyzer)(nil)

// PageAnalyzer is a mock implementation of crawlstat.PageAnalyzer.
type PageAnalyzer struct {
	ProcessFn func(url string, resp *crawlstat.PageResponse) []string
	AnalyzeFn func(url string, resp *crawlstat.PageResponse) crawlstat.PageOutcome
}

func (a *PageAnalyzer) Process(url string, resp *crawlstat.PageResponse) []string {
	return a.ProcessFn(url, resp)
}

func (a *PageAnalyzer) Analyze(url string, resp *crawlstat.PageResponse) crawlstat.PageOutcome {
	return a.AnalyzeFn(url, resp)
}
