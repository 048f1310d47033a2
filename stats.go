package crawlstat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Fingerprint is a fixed-width digest of a page's extracted text.
type Fingerprint uint64

// LongestPage is the page with the most words seen so far.
// It is encoded in JSON as a two-element array: [url, words].
type LongestPage struct {
	URL   string
	Words int
}

// MarshalJSON encodes the page as [url, words].
func (p LongestPage) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.URL, p.Words})
}

// UnmarshalJSON decodes a [url, words] pair.
func (p *LongestPage) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("longest page: expected [url, words], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.URL); err != nil {
		return fmt.Errorf("longest page url: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Words); err != nil {
		return fmt.Errorf("longest page words: %w", err)
	}
	return nil
}

// WordCount is one token with its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// WordCounts is an ordered list of word counts. The order is the order in
// which words were first seen; it breaks ties when ranking words.
// It is encoded in JSON as an object whose keys keep that order.
type WordCounts []WordCount

// MarshalJSON encodes the counts as a JSON object preserving order.
func (w WordCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", wc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into counts, keeping key order.
func (w *WordCounts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("word counts: expected object")
	}

	counts := WordCounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		word, ok := tok.(string)
		if !ok {
			return fmt.Errorf("word counts: expected string key")
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("word counts %q: %w", word, err)
		}
		counts = append(counts, WordCount{Word: word, Count: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*w = counts
	return nil
}

// SubdomainCount is a hostname with the number of unique pages found on it.
type SubdomainCount struct {
	Host  string
	Pages int
}

// Snapshot is the persisted state of the statistics aggregator.
// Restoring a snapshot reconstructs the aggregator exactly.
type Snapshot struct {
	UniquePages []string       `json:"unique_pgs"`
	LongestPage LongestPage    `json:"longest_page"`
	WordCounts  WordCounts     `json:"word_counts"`
	Subdomains  map[string]int `json:"subdomains"`
}

// SnapshotStore persists crawl statistics between the crawl and report steps.
type SnapshotStore interface {
	// SaveSnapshot persists the snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// LoadSnapshot returns the most recently saved snapshot.
	// Returns ENOTFOUND if nothing has been saved.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Stopwords is a set of words excluded from word counts.
type Stopwords map[string]struct{}

// NewStopwords builds a set from the given words.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is a stop word.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// SnapshotInfo summarizes one saved snapshot.
type SnapshotInfo struct {
	ID          string
	UniquePages int
	CreatedAt   time.Time
}
