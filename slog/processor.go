package slog

import (
	"log/slog"

	"github.com/fwojciec/crawlstat"
)

// Ensure LoggingProcessor implements crawlstat.PageAnalyzer.
var _ crawlstat.PageAnalyzer = (*LoggingProcessor)(nil)

// LoggingProcessor logs one line per processed page: its status, whether it
// had content, how many anchors were extracted and how many links were kept.
type LoggingProcessor struct {
	next   crawlstat.PageAnalyzer
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next crawlstat.PageAnalyzer, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped analyzer and returns the kept links.
func (p *LoggingProcessor) Process(url string, resp *crawlstat.PageResponse) []string {
	return p.Analyze(url, resp).Links
}

// Analyze delegates to the wrapped analyzer and logs the outcome.
func (p *LoggingProcessor) Analyze(url string, resp *crawlstat.PageResponse) crawlstat.PageOutcome {
	out := p.next.Analyze(url, resp)

	attrs := []any{
		"url", url,
		"content", resp.OK(),
		"anchors", out.Anchors,
		"links", len(out.Links),
		"words", out.Words,
		"counted", out.Counted(),
	}
	if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode)
		if resp.Error != "" {
			attrs = append(attrs, "error", resp.Error)
		}
	}
	if out.Skipped != crawlstat.ReasonNone {
		attrs = append(attrs, "skipped", string(out.Skipped))
	}
	if out.Duplicate {
		attrs = append(attrs, "duplicate", true)
	}
	p.logger.Info("page", attrs...)
	return out
}
