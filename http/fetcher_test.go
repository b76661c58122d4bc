package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/sitecrawl"
	sitecrawlhttp "github.com/fwojciec/sitecrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that Fetcher implements sitecrawl.Fetcher.
var _ sitecrawl.Fetcher = (*sitecrawlhttp.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body headers and status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		resp, err := sitecrawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<html><body>Hello World</body></html>", string(resp.Body))
		assert.Equal(t, server.URL, resp.URL)
	})

	t.Run("sends user agent and accepted encodings", func(t *testing.T) {
		t.Parallel()

		var ua, enc string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
			enc = r.Header.Get("Accept-Encoding")
		}))
		defer server.Close()

		_, err := sitecrawlhttp.NewFetcher(sitecrawlhttp.WithUserAgent("test-agent/1.0")).Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", ua)
		assert.Equal(t, "gzip, deflate, br", enc)
	})

	t.Run("decodes gzip bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte("<p>gzipped</p>"))
		require.NoError(t, gz.Close())

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		}))
		defer server.Close()

		resp, err := sitecrawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>gzipped</p>", string(resp.Body))
	})

	t.Run("decodes brotli bodies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		br := brotli.NewWriter(&buf)
		_, _ = br.Write([]byte("<p>brotli</p>"))
		require.NoError(t, br.Close())

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(buf.Bytes())
		}))
		defer server.Close()

		resp, err := sitecrawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>brotli</p>", string(resp.Body))
	})

	t.Run("reports the final URL after redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		resp, err := sitecrawlhttp.NewFetcher().Fetch(context.Background(), server.URL+"/old")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/new", resp.URL)
	})

	t.Run("rejects bodies over the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer server.Close()

		_, err := sitecrawlhttp.NewFetcher(sitecrawlhttp.WithMaxBodyBytes(10)).Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		_, err := sitecrawlhttp.NewFetcher(sitecrawlhttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sitecrawlhttp.NewFetcher().Fetch(ctx, server.URL)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
	})

	t.Run("returns error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := sitecrawlhttp.NewFetcher(sitecrawlhttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
	})

	t.Run("returns response and error for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		resp, err := sitecrawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
		assert.Contains(t, sitecrawl.ErrorMessage(err), "404")
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "404 Not Found", string(resp.Body))
	})
}
