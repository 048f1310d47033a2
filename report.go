package crawlstat

import (
	"fmt"
	"io"
	"strings"
)

// DefaultTopWords is the number of most common words shown in a report.
const DefaultTopWords = 50

// Report is the post-crawl view of the statistics.
type Report struct {
	UniquePages int
	LongestPage LongestPage
	TopWords    []WordCount
	Subdomains  []SubdomainCount
}

// ReportWriter renders a report to a writer.
type ReportWriter interface {
	WriteReport(w io.Writer, report *Report) error
}

// FormatReport renders the report as plain text, one value per line.
func FormatReport(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Unique pages: %d\n", r.UniquePages)
	fmt.Fprintf(&b, "Longest page: %s (%d words)\n", r.LongestPage.URL, r.LongestPage.Words)

	fmt.Fprintf(&b, "\nTop %d words:\n", len(r.TopWords))
	for _, wc := range r.TopWords {
		fmt.Fprintf(&b, "%s %d\n", wc.Word, wc.Count)
	}

	fmt.Fprintf(&b, "\nSubdomains: %d\n", len(r.Subdomains))
	for _, sd := range r.Subdomains {
		fmt.Fprintf(&b, "%s, %d\n", sd.Host, sd.Pages)
	}

	return b.String()
}
