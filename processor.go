package crawlstat

// PageProcessor runs one fetched page through link extraction, filtering
// and statistics. It returns the links eligible for the frontier in the order
// their anchors appear in the document.
type PageProcessor interface {
	Process(url string, resp *PageResponse) []string
}

// PageAnalyzer is a PageProcessor that can also report everything
// processing did with a page.
type PageAnalyzer interface {
	PageProcessor
	Analyze(url string, resp *PageResponse) PageOutcome
}

// PageOutcome describes what processing did with a page.
type PageOutcome struct {
	// Links are the eligible links in anchor order, first occurrence kept.
	Links []string

	// Anchors is the number of raw anchors found on the page.
	Anchors int

	// Words is the number of words in the extracted text.
	Words int

	// Skipped is why the page was not counted in the statistics.
	// ReasonNone together with Duplicate == false means it was counted.
	Skipped Reason

	// Duplicate is true when the page text was an exact repeat.
	Duplicate bool
}

// Counted reports whether the page updated the statistics.
func (o PageOutcome) Counted() bool {
	return o.Skipped == ReasonNone && !o.Duplicate
}
