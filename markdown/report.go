// Package markdown renders crawl reports as GitHub-flavored Markdown using
// github.com/nao1215/markdown.
package markdown

import (
	"io"
	"strconv"

	"github.com/fwojciec/crawlstat"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// Ensure ReportWriter implements crawlstat.ReportWriter at compile time.
var _ crawlstat.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes a crawl report as Markdown: a summary table, the most
// common words, and the per-subdomain page counts with a mermaid pie chart.
type ReportWriter struct {
	// Title is the top-level heading.
	Title string
}

// NewReportWriter creates a ReportWriter with the default title.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{Title: "Crawl Report"}
}

// WriteReport renders report to w.
func (rw *ReportWriter) WriteReport(w io.Writer, report *crawlstat.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1(rw.Title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Unique pages", strconv.Itoa(report.UniquePages)},
			{"Longest page", report.LongestPage.URL},
			{"Longest page words", strconv.Itoa(report.LongestPage.Words)},
			{"Subdomains", strconv.Itoa(len(report.Subdomains))},
		},
	})
	md.PlainText("")

	writeWords(md, report.TopWords)
	writeSubdomains(md, report.Subdomains)

	return md.Build()
}

func writeWords(md *markdown.Markdown, words []crawlstat.WordCount) {
	md.H2("Top " + strconv.Itoa(len(words)) + " Words")
	md.PlainText("")

	if len(words) == 0 {
		md.PlainText("No words counted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(words))
	for i, wc := range words {
		rows = append(rows, []string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSubdomains(md *markdown.Markdown, subdomains []crawlstat.SubdomainCount) {
	md.H2("Subdomains")
	md.PlainText("")

	if len(subdomains) == 0 {
		md.PlainText("No pages recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(subdomains))
	for _, sd := range subdomains {
		rows = append(rows, []string{sd.Host, strconv.Itoa(sd.Pages)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Subdomain", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Subdomain"),
		piechart.WithShowData(true),
	)
	for _, sd := range subdomains {
		chart.LabelAndIntValue(sd.Host, uint64(sd.Pages))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
