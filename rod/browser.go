package rod

import (
	"sync"
	"sync/atomic"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of rendered pages after which the
// browser process is replaced.
const DefaultRecycleAfter = 75

// BrowserManager owns a headless Chrome process and restarts it after a
// fixed number of pages. Chrome does not return memory to its baseline even
// when pages are closed, so long crawls need a fresh process periodically.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	rendered     atomic.Int64
	recycleAfter int64
	bin          string
	closed       atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages are rendered before the browser is
// restarted. Non-positive values disable recycling.
func WithRecycleAfter(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// WithBrowserBin uses the Chrome binary at path instead of the one rod
// discovers or downloads.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(bm)
	}

	b, l, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = b, l
	return bm, nil
}

// Browser returns the live browser, first replacing it when the recycle
// threshold has been reached. A failed restart keeps the old browser.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	if bm.closed.Load() {
		return nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "browser manager closed")
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.recycleAfter > 0 && bm.rendered.Load() >= bm.recycleAfter {
		bm.recycle()
	}
	return bm.browser, nil
}

// PageDone records one rendered page toward the recycle threshold.
func (bm *BrowserManager) PageDone() {
	bm.rendered.Add(1)
}

// Rendered returns the number of pages rendered by the current browser.
func (bm *BrowserManager) Rendered() int64 {
	return bm.rendered.Load()
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "launching browser: %v", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "connecting to browser: %v", err)
	}
	return b, l, nil
}

// recycle must be called with mu held.
func (bm *BrowserManager) recycle() {
	b, l, err := bm.launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = b, l
	bm.rendered.Store(0)
}

func shutdown(b *rod.Browser, l *launcher.Launcher) error {
	var err error
	if b != nil {
		err = b.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
