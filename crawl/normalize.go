package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/crawlstat"
)

// placeholderTokens mark template hrefs that were never filled in.
var placeholderTokens = []string{"your_ip"}

// NormalizeLink resolves a raw anchor target against the page URL and returns
// the canonical form: absolute, fragment-free and lowercased.
// Malformed targets are rejected with ReasonMalformed rather than an error.
func NormalizeLink(baseURL, raw string) crawlstat.Verdict {
	target := strings.TrimSpace(raw)
	if target == "" {
		return crawlstat.Verdict{Reason: crawlstat.ReasonMalformed}
	}

	lower := strings.ToLower(target)
	for _, token := range placeholderTokens {
		if strings.Contains(lower, token) {
			return crawlstat.Verdict{Reason: crawlstat.ReasonMalformed}
		}
	}

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return crawlstat.Verdict{Reason: crawlstat.ReasonMalformed}
	}
	ref, err := url.Parse(target)
	if err != nil {
		return crawlstat.Verdict{Reason: crawlstat.ReasonMalformed}
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	return crawlstat.Verdict{URL: strings.ToLower(resolved.String())}
}

// PageKey returns the key a page is counted under in the unique-page set:
// fragment stripped, lowercased, trailing slashes removed.
func PageKey(rawURL string) string {
	key := rawURL
	if idx := strings.Index(key, "#"); idx != -1 {
		key = key[:idx]
	}
	return strings.TrimRight(strings.ToLower(key), "/")
}

// LinkKey identifies links that lead to the same page within one document:
// the PageKey with a leading "www." dropped from the host, so
// https://www.ics.uci.edu/about.html and https://ics.uci.edu/about.html
// collapse to one link.
func LinkKey(rawURL string) string {
	key := PageKey(rawURL)
	if i := strings.Index(key, "://"); i != -1 && strings.HasPrefix(key[i+3:], "www.") {
		key = key[:i+3] + key[i+7:]
	}
	return key
}
