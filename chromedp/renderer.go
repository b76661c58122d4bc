package chromedp

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Renderer = (*Renderer)(nil)

// Defaults for Renderer.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultSessions = 1
)

// Renderer renders pages in short-lived headless Chrome sessions driven by
// chromedp. Each Render starts its own browser, so nothing leaks between
// pages; the number of concurrent sessions is bounded.
type Renderer struct {
	timeout   time.Duration
	userAgent string
	execPath  string
	sem       chan struct{}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout bounds a single render, including browser start-up.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// WithSessions sets how many browser sessions may run at once.
func WithSessions(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.sem = make(chan struct{}, n)
		}
	}
}

// WithExecPath uses the Chrome binary at path.
func WithExecPath(path string) Option {
	return func(r *Renderer) {
		r.execPath = path
	}
}

// NewRenderer creates a Renderer. No browser is started until Render.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		timeout: DefaultTimeout,
		sem:     make(chan struct{}, DefaultSessions),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, waits for the document to be ready and then for
// wait, and returns the outer HTML of the document. Failures are EFETCH
// except cancellation of ctx, which is returned unchanged.
func (r *Renderer) Render(ctx context.Context, url string, wait time.Duration) (string, error) {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(runCtx, r.allocatorOptions()...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if wait > 0 {
		actions = append(actions, chromedp.Sleep(wait))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "rendering %s: %v", url, err)
	}
	return html, nil
}

// Close is a no-op; sessions end with each Render.
func (r *Renderer) Close() error {
	return nil
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.userAgent))
	}
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	return opts
}
