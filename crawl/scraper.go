package crawl

import "github.com/fwojciec/crawlstat"

// Compile-time interface verification.
var _ crawlstat.PageAnalyzer = (*Scraper)(nil)

// Scraper runs fetched pages through the processing pipeline:
// extraction, content guard, duplicate detection and statistics on one
// side, link normalization and filtering on the other.
type Scraper struct {
	Extractor  crawlstat.TextExtractor
	Filter     *Filter
	Guard      ContentGuard
	Duplicates *DuplicateDetector
	Stats      *Aggregator
}

// NewScraper wires a Scraper with the default guard and a fresh
// duplicate detector.
func NewScraper(extractor crawlstat.TextExtractor, filter *Filter, stats *Aggregator) *Scraper {
	return &Scraper{
		Extractor:  extractor,
		Filter:     filter,
		Guard:      NewContentGuard(),
		Duplicates: NewDuplicateDetector(),
		Stats:      stats,
	}
}

// Process returns the links on the page eligible for the frontier.
// Responses that are not OK yield no links and leave statistics untouched.
func (s *Scraper) Process(pageURL string, resp *crawlstat.PageResponse) []string {
	return s.Analyze(pageURL, resp).Links
}

// Analyze processes a page and reports the full outcome.
func (s *Scraper) Analyze(pageURL string, resp *crawlstat.PageResponse) crawlstat.PageOutcome {
	if !resp.OK() {
		return crawlstat.PageOutcome{Skipped: s.Guard.Check(resp, 0)}
	}

	base := resp.BaseURL()
	if base == "" {
		base = pageURL
	}

	ext := s.Extractor.Extract(resp.Body)
	out := crawlstat.PageOutcome{
		Anchors: len(ext.Links),
		Words:   CountWords(ext.Text),
	}

	out.Skipped = s.Guard.Check(resp, out.Words)
	if out.Skipped == crawlstat.ReasonNone {
		if v := s.Filter.Check(base); !v.Accepted() {
			out.Skipped = v.Reason
		}
	}
	if out.Skipped == crawlstat.ReasonNone {
		out.Duplicate = s.Duplicates.Seen(ext.Text)
		if !out.Duplicate {
			s.Stats.Record(base, ext.Text)
		}
	}

	// Links are collected even from pages that were not counted: a thin or
	// duplicate page can still lead to new URLs.
	out.Links = s.eligibleLinks(base, ext.Links)
	return out
}

// eligibleLinks normalizes and filters anchors, keeping the first of any
// links that share a LinkKey.
func (s *Scraper) eligibleLinks(base string, anchors []string) []string {
	var links []string
	seen := make(map[string]struct{}, len(anchors))
	for _, raw := range anchors {
		v := NormalizeLink(base, raw)
		if !v.Accepted() {
			continue
		}
		key := LinkKey(v.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		if !s.Filter.Valid(v.URL) {
			continue
		}
		seen[key] = struct{}{}
		links = append(links, v.URL)
	}
	return links
}
