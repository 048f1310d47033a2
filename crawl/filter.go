package crawl

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/crawlstat"
)

// DefaultMaxURLLength is the longest URL the filter accepts.
const DefaultMaxURLLength = 200

// DefaultBlockedHostFragments name hosts that generate unbounded repetitive
// pages (grape.ics.uci.edu is a wiki with per-revision URLs).
var DefaultBlockedHostFragments = []string{"grape"}

// DefaultBlockedExtensions are binary, document, media and archive formats
// that never yield crawlable text.
var DefaultBlockedExtensions = []string{
	"css", "js", "bmp", "gif", "jpg", "jpeg", "ico",
	"png", "img", "tif", "tiff", "mid", "mp2", "mp3", "mp4", "mpg",
	"wav", "avi", "mov", "mpeg", "ram", "m4v", "mkv", "ogg", "ogv", "pdf", "txt",
	"ps", "eps", "tex", "ppt", "pptx", "doc", "docx", "xls", "xlsx", "names", "ppsx", "pps",
	"data", "dat", "exe", "bz2", "tar", "msi", "bin", "7z", "psd", "dmg", "iso",
	"epub", "dll", "cnf", "tgz", "sha1",
	"thmx", "mso", "arff", "rtf", "jar", "csv",
	"rm", "smil", "wmv", "swf", "wma", "zip", "rar", "gz",
}

// nearDuplicateParams are query parameters that page through, version or
// key near-identical content. Matching is by substring of "name=", so "id="
// also covers session keys such as "sid=" and "sessionid=".
var nearDuplicateParams = []string{"do=", "idx=", "id=", "version=", "from=", "precision=", "rev="}

// deadLinkPaths are path fragments known to return only missing pages.
var deadLinkPaths = []string{"~dechter/"}

var (
	schemeTokenPattern       = regexp.MustCompile(`https?(:|%3a)`)
	seasonYearWeekPattern    = regexp.MustCompile(`/(fall|spring|winter|summer)-\d{4}-week-\d+`)
	seasonQuarterWeekPattern = regexp.MustCompile(`/(fall|spring|winter|summer)-quarter-week-\d+`)
	datePathPattern          = regexp.MustCompile(`/\d{4}([/-]\d{2}){2}/?$`)
	numericIDPattern         = regexp.MustCompile(`/[a-z]+\d+\.html$`)
)

// Target is a parsed, lowercased URL as seen by filter rules.
type Target struct {
	URL    string
	Scheme string
	Host   string
	Path   string
	Query  string
}

// Rule is one independent crawl-eligibility check. Match returns true when
// the URL must be rejected for Reason.
type Rule struct {
	Reason crawlstat.Reason
	Match  func(t *Target) bool
}

// FilterConfig configures the trap and scope filter.
type FilterConfig struct {
	Scope                crawlstat.Scope
	BlockedHostFragments []string
	BlockedExtensions    []string
	MaxURLLength         int
}

// DefaultFilterConfig returns the configuration used for the academic crawl.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Scope:                crawlstat.DefaultScope,
		BlockedHostFragments: DefaultBlockedHostFragments,
		BlockedExtensions:    DefaultBlockedExtensions,
		MaxURLLength:         DefaultMaxURLLength,
	}
}

// Filter decides crawl eligibility of a URL. It holds no mutable state and
// is safe for concurrent use.
type Filter struct {
	rules []Rule
}

// NewFilter creates a Filter with the default rule set built from cfg.
// Zero-valued fields of cfg fall back to the defaults.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{rules: DefaultRules(cfg)}
}

// NewFilterWithRules creates a Filter evaluating exactly the given rules.
func NewFilterWithRules(rules ...Rule) *Filter {
	return &Filter{rules: rules}
}

// Check evaluates rules in order and stops at the first rejection.
func (f *Filter) Check(rawURL string) crawlstat.Verdict {
	rawURL = strings.TrimSpace(rawURL)
	lower := strings.ToLower(rawURL)

	u, err := url.Parse(lower)
	if err != nil {
		return crawlstat.Verdict{URL: rawURL, Reason: crawlstat.ReasonMalformed}
	}

	t := &Target{
		URL:    lower,
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Path:   u.Path,
		Query:  u.RawQuery,
	}
	for _, rule := range f.rules {
		if rule.Match(t) {
			return crawlstat.Verdict{URL: rawURL, Reason: rule.Reason}
		}
	}
	return crawlstat.Verdict{URL: rawURL}
}

// Valid reports whether the URL is eligible for crawling.
func (f *Filter) Valid(rawURL string) bool {
	return f.Check(rawURL).Accepted()
}

// DefaultRules returns the ordered rule list. Each rule targets one observed
// trap class; new trap classes are handled by appending rules.
func DefaultRules(cfg FilterConfig) []Rule {
	scope := cfg.Scope
	if len(scope) == 0 {
		scope = crawlstat.DefaultScope
	}
	blockedHosts := cfg.BlockedHostFragments
	if blockedHosts == nil {
		blockedHosts = DefaultBlockedHostFragments
	}
	extensions := cfg.BlockedExtensions
	if len(extensions) == 0 {
		extensions = DefaultBlockedExtensions
	}
	maxLen := cfg.MaxURLLength
	if maxLen <= 0 {
		maxLen = DefaultMaxURLLength
	}

	blockedExt := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		blockedExt[strings.TrimPrefix(strings.ToLower(ext), ".")] = struct{}{}
	}

	return []Rule{
		{crawlstat.ReasonScheme, func(t *Target) bool {
			return t.Scheme != "http" && t.Scheme != "https"
		}},
		{crawlstat.ReasonMalformed, func(t *Target) bool {
			return schemeTokenPattern.MatchString(t.Path)
		}},
		{crawlstat.ReasonMalformed, func(t *Target) bool {
			return t.Host == ""
		}},
		{crawlstat.ReasonOutOfScope, func(t *Target) bool {
			return !scope.Contains(t.Host)
		}},
		{crawlstat.ReasonExtension, func(t *Target) bool {
			ext := strings.TrimPrefix(path.Ext(t.Path), ".")
			_, blocked := blockedExt[ext]
			return ext != "" && blocked
		}},
		{crawlstat.ReasonCalendar, isCalendarTrap},
		{crawlstat.ReasonBlockedHost, func(t *Target) bool {
			return containsAny(t.Host, blockedHosts)
		}},
		{crawlstat.ReasonNumericID, func(t *Target) bool {
			return numericIDPattern.MatchString(t.Path)
		}},
		{crawlstat.ReasonQueryParam, func(t *Target) bool {
			return containsAny(t.Query, nearDuplicateParams)
		}},
		{crawlstat.ReasonJunk, func(t *Target) bool {
			return strings.Contains(t.Query, "requesttracker") ||
				strings.Contains(t.Path, "/page/") ||
				strings.Contains(t.Path, "junkyard")
		}},
		{crawlstat.ReasonDataset, func(t *Target) bool {
			return strings.Contains(t.Query, "datasets") ||
				strings.HasPrefix(t.Path, "/ml/datasets")
		}},
		{crawlstat.ReasonPublication, func(t *Target) bool {
			return strings.Contains(t.Path, "/pub/") ||
				strings.Contains(t.Path, "publications")
		}},
		{crawlstat.ReasonDeadLink, func(t *Target) bool {
			return containsAny(t.Path, deadLinkPaths)
		}},
		{crawlstat.ReasonTooLong, func(t *Target) bool {
			return len(t.URL) > maxLen
		}},
		{crawlstat.ReasonQueryComplexity, func(t *Target) bool {
			return strings.Count(t.URL, "?") > 1 || strings.Count(t.URL, "&") > 4
		}},
	}
}

// isCalendarTrap matches event listings and date- or week-keyed pages.
func isCalendarTrap(t *Target) bool {
	p := t.Path
	return strings.Contains(p, "/events/") ||
		strings.Contains(p, "/event/") ||
		seasonYearWeekPattern.MatchString(p) ||
		seasonQuarterWeekPattern.MatchString(p) ||
		datePathPattern.MatchString(p) ||
		strings.HasSuffix(p, "week")
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
