package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/crawlstat"
	crawlhttp "github.com/fwojciec/crawlstat/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body and status from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher()
		defer fetcher.Close()

		resp, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<html><body>Hello World</body></html>", string(resp.Body))
		assert.Equal(t, server.URL, resp.URL)
		assert.Empty(t, resp.Error)
		assert.True(t, resp.OK())
	})

	t.Run("reports final URL after redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new/", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := crawlhttp.NewFetcher()
		defer fetcher.Close()

		resp, err := fetcher.Fetch(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/old", resp.URL)
		assert.Equal(t, server.URL+"/new/", resp.FinalURL)
		assert.Equal(t, server.URL+"/new/", resp.BaseURL())
	})

	t.Run("returns non-2xx status without error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher()
		defer fetcher.Close()

		resp, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, resp.Error, "404")
		assert.False(t, resp.OK())
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		got := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got <- r.Header.Get("User-Agent")
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher(crawlhttp.WithUserAgent("IR UW24 test"))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "IR UW24 test", <-got)
	})

	t.Run("caps body at max bytes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher(crawlhttp.WithMaxBodyBytes(10))
		defer fetcher.Close()

		resp, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, resp.Body, 10)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher(crawlhttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := crawlhttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := crawlhttp.NewFetcher(crawlhttp.WithTimeout(100 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
	})
}

// Compile-time verification that Fetcher implements crawlstat.Fetcher
var _ crawlstat.Fetcher = (*crawlhttp.Fetcher)(nil)
