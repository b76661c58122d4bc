package mock

import (
	"context"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitecrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitecrawl.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitecrawl.Response, error) {
	return f.FetchFn(ctx, url)
}

var _ sitecrawl.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of sitecrawl.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, wait time.Duration) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string, wait time.Duration) (string, error) {
	return r.RenderFn(ctx, url, wait)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

var _ sitecrawl.JSDetector = (*JSDetector)(nil)

// JSDetector is a mock implementation of sitecrawl.JSDetector.
type JSDetector struct {
	RequiresJSFn func(html string) bool
}

func (d *JSDetector) RequiresJS(html string) bool {
	return d.RequiresJSFn(html)
}
