package crawlstat

// Extraction holds what the text extractor pulled out of a page.
type Extraction struct {
	// Text is the whitespace-joined text content with markup stripped.
	Text string

	// Links are raw href values of anchors in document order.
	// Duplicates are kept and case is untouched.
	Links []string
}

// TextExtractor turns raw response bytes into plain text and anchor targets.
type TextExtractor interface {
	// Extract never fails: unparseable input yields an empty Extraction,
	// which callers treat the same as a page without content.
	Extract(body []byte) Extraction
}
