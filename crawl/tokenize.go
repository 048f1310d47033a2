package crawl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/crawlstat"
)

// asciiPunctuation is the set of characters trimmed from token edges.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Tokenize splits text on whitespace, trims leading and trailing punctuation
// and lowercases each token. Punctuation inside a token is kept ("don't").
// Tokens that are empty after trimming are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.Trim(strings.ToLower(f), asciiPunctuation)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Countable reports whether a token counts towards word frequencies:
// longer than one character, containing a letter, not purely numeric and
// not a stop word.
func Countable(token string, stopwords crawlstat.Stopwords) bool {
	if utf8.RuneCountInString(token) <= 1 {
		return false
	}
	if !strings.ContainsFunc(token, unicode.IsLetter) {
		return false
	}
	if isNumeric(token) {
		return false
	}
	return !stopwords.Contains(token)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return s != ""
}
