package crawlstat

// PageResponse is a fetched page as handed over by the fetch layer.
// It is treated as immutable for the duration of one processing call.
type PageResponse struct {
	// URL is the URL that was requested from the frontier.
	URL string

	// FinalURL is the URL after redirects. Empty means same as URL.
	FinalURL string

	StatusCode int

	// Body holds the raw response bytes. Nil when the fetch produced no content.
	Body []byte

	// Error describes a fetch-layer failure, if any.
	Error string
}

// BaseURL returns the URL relative links on the page resolve against.
func (r *PageResponse) BaseURL() string {
	if r.FinalURL != "" {
		return r.FinalURL
	}
	return r.URL
}

// Success reports whether the status code is in the 2xx class.
func (r *PageResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// OK reports whether the response is successful and carries a body.
// Responses that are not OK yield no links and no statistics.
func (r *PageResponse) OK() bool {
	return r != nil && r.Success() && len(r.Body) > 0
}
