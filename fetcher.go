package sitecrawl

import (
	"context"
	"net/http"
	"time"
)

// Response is a fetched resource.
type Response struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher retrieves raw resources over the network.
type Fetcher interface {
	// Fetch retrieves the URL. Timeouts, connection failures and non-2xx
	// statuses are EFETCH errors; for a non-2xx status the response is
	// returned alongside the error so the caller can log it.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Renderer produces the DOM of a page after JavaScript has run.
// Implementations use browser automation.
type Renderer interface {
	// Render navigates to the URL, waits for the page to load plus wait,
	// and returns the rendered HTML.
	Render(ctx context.Context, url string, wait time.Duration) (string, error)

	// Close releases browser resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// JSDetector decides whether static HTML is an empty JavaScript shell.
type JSDetector interface {
	RequiresJS(html string) bool
}

// RenderMode controls when the Renderer replaces the fetched HTML.
type RenderMode string

// Supported render modes.
const (
	RenderNever  RenderMode = "never"
	RenderAlways RenderMode = "always"
	// RenderAuto renders only pages a JSDetector flags as JavaScript shells.
	RenderAuto RenderMode = "auto"
)
