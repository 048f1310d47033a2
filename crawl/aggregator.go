package crawl

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/crawlstat"
)

// Aggregator accumulates crawl-wide statistics. It is created at crawl
// start, shared by every page-processing call and read at report time.
// All mutation happens under one lock, so it is safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	scope     crawlstat.Scope
	stopwords crawlstat.Stopwords

	pages     map[string]struct{}
	pageOrder []string
	longest   crawlstat.LongestPage

	// wordIndex maps a word to its position in words.
	wordIndex map[string]int
	words     []crawlstat.WordCount

	subdomains map[string]int
}

// NewAggregator creates an empty aggregator. Subdomain counts are
// restricted to hosts within scope.
func NewAggregator(scope crawlstat.Scope, stopwords crawlstat.Stopwords) *Aggregator {
	if stopwords == nil {
		stopwords = crawlstat.NewStopwords()
	}
	return &Aggregator{
		scope:      scope,
		stopwords:  stopwords,
		pages:      make(map[string]struct{}),
		wordIndex:  make(map[string]int),
		subdomains: make(map[string]int),
	}
}

// Record counts an accepted, non-duplicate page.
func (a *Aggregator) Record(pageURL, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.addPage(pageURL)
	a.updateLongest(pageURL, CountWords(text))
	a.countWords(text)
}

// AddPage inserts a page into the unique-page set. Insertion is idempotent.
func (a *Aggregator) AddPage(pageURL string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addPage(pageURL)
}

func (a *Aggregator) addPage(pageURL string) {
	key := PageKey(pageURL)
	if key == "" {
		return
	}
	if _, ok := a.pages[key]; ok {
		return
	}
	a.pages[key] = struct{}{}
	a.pageOrder = append(a.pageOrder, key)
}

// updateLongest replaces the longest page only on strict improvement,
// so ties keep the first page seen.
func (a *Aggregator) updateLongest(pageURL string, words int) {
	if words > a.longest.Words {
		a.longest = crawlstat.LongestPage{URL: pageURL, Words: words}
	}
}

func (a *Aggregator) countWords(text string) {
	for _, token := range Tokenize(text) {
		if !Countable(token, a.stopwords) {
			continue
		}
		if idx, ok := a.wordIndex[token]; ok {
			a.words[idx].Count++
			continue
		}
		a.wordIndex[token] = len(a.words)
		a.words = append(a.words, crawlstat.WordCount{Word: token, Count: 1})
	}
}

// UniquePages returns the number of unique pages recorded.
func (a *Aggregator) UniquePages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pages)
}

// LongestPage returns the page with the most words.
func (a *Aggregator) LongestPage() crawlstat.LongestPage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.longest
}

// WordCount returns the count for a single word.
func (a *Aggregator) WordCount(word string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx, ok := a.wordIndex[word]; ok {
		return a.words[idx].Count
	}
	return 0
}

// TopWords returns the n most frequent words, highest count first.
// Ties are broken by the order in which words were first seen.
// A non-positive n returns every word.
func (a *Aggregator) TopWords(n int) []crawlstat.WordCount {
	a.mu.Lock()
	ranked := make([]crawlstat.WordCount, len(a.words))
	copy(ranked, a.words)
	a.mu.Unlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Subdomains tallies unique pages per in-scope hostname and returns the
// counts sorted by hostname. Counts are recomputed from the full unique-page
// set on every call, so calling it more than once never double counts.
func (a *Aggregator) Subdomains() []crawlstat.SubdomainCount {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.countSubdomains()

	counts := make([]crawlstat.SubdomainCount, 0, len(a.subdomains))
	for host, pages := range a.subdomains {
		counts = append(counts, crawlstat.SubdomainCount{Host: host, Pages: pages})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Host < counts[j].Host
	})
	return counts
}

func (a *Aggregator) countSubdomains() {
	a.subdomains = make(map[string]int)
	for _, page := range a.pageOrder {
		u, err := url.Parse(page)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if !a.scope.Contains(host) {
			continue
		}
		a.subdomains[host]++
	}
}

// Report builds the post-crawl report with the topN most common words.
func (a *Aggregator) Report(topN int) *crawlstat.Report {
	subdomains := a.Subdomains()
	return &crawlstat.Report{
		UniquePages: a.UniquePages(),
		LongestPage: a.LongestPage(),
		TopWords:    a.TopWords(topN),
		Subdomains:  subdomains,
	}
}

// Snapshot captures the aggregator state for persistence, with subdomain
// counts brought up to date.
func (a *Aggregator) Snapshot() *crawlstat.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.countSubdomains()

	snap := &crawlstat.Snapshot{
		UniquePages: append([]string{}, a.pageOrder...),
		LongestPage: a.longest,
		WordCounts:  append(crawlstat.WordCounts{}, a.words...),
		Subdomains:  make(map[string]int, len(a.subdomains)),
	}
	for host, n := range a.subdomains {
		snap.Subdomains[host] = n
	}
	return snap
}

// Restore replaces the aggregator state with a snapshot.
func (a *Aggregator) Restore(snap *crawlstat.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pages = make(map[string]struct{}, len(snap.UniquePages))
	a.pageOrder = nil
	for _, page := range snap.UniquePages {
		if _, ok := a.pages[page]; ok {
			continue
		}
		a.pages[page] = struct{}{}
		a.pageOrder = append(a.pageOrder, page)
	}

	a.longest = snap.LongestPage

	a.wordIndex = make(map[string]int, len(snap.WordCounts))
	a.words = nil
	for _, wc := range snap.WordCounts {
		if idx, ok := a.wordIndex[wc.Word]; ok {
			a.words[idx].Count += wc.Count
			continue
		}
		a.wordIndex[wc.Word] = len(a.words)
		a.words = append(a.words, wc)
	}

	a.subdomains = make(map[string]int, len(snap.Subdomains))
	for host, n := range snap.Subdomains {
		a.subdomains[host] = n
	}
}
