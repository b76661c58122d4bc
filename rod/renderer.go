package rod

import (
	"context"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-rod/rod/lib/proto"
)

var _ sitecrawl.Renderer = (*Renderer)(nil)

// Renderer returns the DOM of a page after its scripts have run, using a
// recycling headless Chrome.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
}

// NewRenderer launches a browser configured by opts.
// Close must be called when the Renderer is no longer needed.
func NewRenderer(opts ...ManagerOption) (*Renderer, error) {
	bm, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{manager: bm}, nil
}

// Render navigates to url, waits for the load event and then for wait, and
// returns the serialized DOM. Failures are EFETCH except context errors,
// which are returned unchanged.
func (r *Renderer) Render(ctx context.Context, url string, wait time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := r.manager.Browser()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "opening tab for %s: %v", url, err)
	}
	defer func() { _ = page.Close() }()
	defer r.manager.PageDone()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", renderError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", renderError(ctx, url, err)
	}

	if wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", renderError(ctx, url, err)
	}
	return html, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (r *Renderer) LauncherPID() int {
	return r.manager.LauncherPID()
}

func renderError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return sitecrawl.Errorf(sitecrawl.EFETCH, "rendering %s: %v", url, err)
}
