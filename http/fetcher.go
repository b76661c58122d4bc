// Package http provides the network implementation of sitecrawl.Fetcher.
// It returns raw bytes and headers and never executes JavaScript; rendering
// is the job of a sitecrawl.Renderer.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/sitecrawl"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBodyBytes = 25 << 20
	DefaultUserAgent    = "sitecrawl/1.0"
)

// Ensure Fetcher implements sitecrawl.Fetcher at compile time.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources with plain HTTP GET requests.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a whole request, body included.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps the decoded body size. Larger bodies fail with EFETCH.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves url. Redirects are followed and the final URL is
// reported on the response. A non-2xx status returns the response together
// with an EFETCH error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitecrawl.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "reading %s: %v", url, err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	out := &sitecrawl.Response{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}
	return out, nil
}

// readBody decodes the Content-Encoding of the body and enforces the size cap.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, errors.New("response body exceeds size limit")
	}
	return body, nil
}
