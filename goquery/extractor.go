// Package goquery implements text and anchor extraction from HTML using
// goquery.
package goquery

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawlstat"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Ensure Extractor implements crawlstat.TextExtractor at compile time.
var _ crawlstat.TextExtractor = (*Extractor)(nil)

// nonContentSelector matches elements whose text is never page content.
const nonContentSelector = "script, style, noscript, template"

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Extractor pulls plain text and raw anchor targets out of HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses body and returns its text and anchors.
// The body is decoded to UTF-8 first, trusting valid UTF-8 over a guessed charset.
// Unparseable input yields an empty Extraction.
func (e *Extractor) Extract(body []byte) crawlstat.Extraction {
	if len(body) == 0 {
		return crawlstat.Extraction{}
	}

	doc, err := goquery.NewDocumentFromReader(decode(body))
	if err != nil {
		return crawlstat.Extraction{}
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			links = append(links, href)
		}
	})

	doc.Find(nonContentSelector).Remove()

	var words []string
	for _, n := range doc.Nodes {
		words = appendText(words, n)
	}

	return crawlstat.Extraction{
		Text:  strings.Join(words, " "),
		Links: links,
	}
}

// decode wraps body in a reader converting it to UTF-8.
// A BOM decides the encoding. Otherwise a body that is valid UTF-8 is read
// as is, since the sniffed guess only looks at the first kilobyte. Any other
// body is decoded with its declared charset, or windows-1252 without one.
func decode(body []byte) io.Reader {
	body = bytes.TrimPrefix(body, utf8BOM)
	enc, _, certain := charset.DetermineEncoding(body, "")
	if !certain && utf8.Valid(body) {
		return bytes.NewReader(body)
	}
	return enc.NewDecoder().Reader(bytes.NewReader(body))
}

// appendText collects the words of every text node under n in document order.
// Each text node contributes separately, so adjacent inline elements never
// glue words together.
func appendText(words []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(words, strings.Fields(n.Data)...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		words = appendText(words, c)
	}
	return words
}
