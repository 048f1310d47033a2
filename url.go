package crawlstat

import "strings"

// Reason tags why a URL or page was rejected. The empty Reason means accepted.
type Reason string

// Link rejection reasons, in the order the filter evaluates them.
const (
	ReasonNone            Reason = ""
	ReasonMalformed       Reason = "malformed"
	ReasonScheme          Reason = "scheme"
	ReasonOutOfScope      Reason = "out-of-scope"
	ReasonExtension       Reason = "extension"
	ReasonCalendar        Reason = "calendar"
	ReasonBlockedHost     Reason = "blocked-host"
	ReasonNumericID       Reason = "numeric-id"
	ReasonQueryParam      Reason = "query-param"
	ReasonJunk            Reason = "junk"
	ReasonDataset         Reason = "dataset"
	ReasonPublication     Reason = "publication"
	ReasonDeadLink        Reason = "dead-link"
	ReasonTooLong         Reason = "too-long"
	ReasonQueryComplexity Reason = "query-complexity"
)

// Page rejection reasons used by the content guard.
const (
	ReasonStatus   Reason = "status"
	ReasonEmpty    Reason = "empty"
	ReasonTooLarge Reason = "too-large"
	ReasonThin     Reason = "thin"
)

// Verdict is the outcome of normalizing or filtering a URL.
type Verdict struct {
	// URL is the normalized URL. It is empty when normalization failed.
	URL    string
	Reason Reason
}

// Accepted reports whether the URL passed.
func (v Verdict) Accepted() bool {
	return v.Reason == ReasonNone
}

// Scope is the set of registrable domains a crawl is restricted to.
// A host is in scope if it equals one of the domains or is a subdomain of one.
type Scope []string

// DefaultScope lists the academic domains crawled by default.
var DefaultScope = Scope{
	"ics.uci.edu",
	"cs.uci.edu",
	"informatics.uci.edu",
	"stat.uci.edu",
}

// Contains reports whether host falls within the scope.
func (s Scope) Contains(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	for _, domain := range s {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
