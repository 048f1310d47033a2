package crawlstat_test

import (
	"testing"

	"github.com/fwojciec/crawlstat"
	"github.com/stretchr/testify/assert"
)

func TestPageResponse_BaseURL(t *testing.T) {
	t.Parallel()

	t.Run("falls back to requested URL", func(t *testing.T) {
		t.Parallel()
		r := &crawlstat.PageResponse{URL: "https://www.ics.uci.edu/a"}
		assert.Equal(t, "https://www.ics.uci.edu/a", r.BaseURL())
	})

	t.Run("prefers final URL after redirects", func(t *testing.T) {
		t.Parallel()
		r := &crawlstat.PageResponse{URL: "https://ics.uci.edu/a", FinalURL: "https://www.ics.uci.edu/a/"}
		assert.Equal(t, "https://www.ics.uci.edu/a/", r.BaseURL())
	})
}

func TestPageResponse_OK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *crawlstat.PageResponse
		success bool
		ok      bool
	}{
		{"200 with body", &crawlstat.PageResponse{StatusCode: 200, Body: []byte("x")}, true, true},
		{"204 without body", &crawlstat.PageResponse{StatusCode: 204}, true, false},
		{"299 with body", &crawlstat.PageResponse{StatusCode: 299, Body: []byte("x")}, true, true},
		{"301 with body", &crawlstat.PageResponse{StatusCode: 301, Body: []byte("x")}, false, false},
		{"404 with body", &crawlstat.PageResponse{StatusCode: 404, Body: []byte("x")}, false, false},
		{"600 with body", &crawlstat.PageResponse{StatusCode: 600, Body: []byte("x")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.success, tt.resp.Success())
			assert.Equal(t, tt.ok, tt.resp.OK())
		})
	}
}

func TestPageResponse_OK_Nil(t *testing.T) {
	t.Parallel()

	var r *crawlstat.PageResponse
	assert.False(t, r.OK())
}
