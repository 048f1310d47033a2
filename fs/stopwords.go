// Package fs provides file-based storage for crawl inputs and statistics.
package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/crawlstat"
)

// LoadStopwords reads a newline-delimited stop-word file. Lines are trimmed
// and lowercased; blank lines are skipped. A missing file is a configuration
// error.
func LoadStopwords(path string) (crawlstat.Stopwords, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, crawlstat.Errorf(crawlstat.ECONFIG, "stopwords file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()

	stopwords := crawlstat.NewStopwords()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		stopwords[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return stopwords, nil
}
