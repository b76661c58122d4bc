package crawl

import (
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/bloom"
)

// Compile-time interface verification.
var _ sitecrawl.URLFrontier = (*Frontier)(nil)

// Default frontier sizing.
const (
	DefaultExpectedURLs      = 10000
	DefaultFalsePositiveRate = 0.01
)

// Frontier is an in-memory crawl queue with deduplication.
// It is safe for concurrent use by multiple goroutines.
//
// A URL is marked seen in the same critical section that enqueues it, so
// concurrent pushes of one URL enqueue it at most once. The Bloom filter
// screens out URLs that were certainly never seen; the exact set decides.
type Frontier struct {
	mu       sync.Mutex
	order    sitecrawl.Order
	maxDepth int
	maxPages int

	filter  *bloom.Filter
	seen    map[string]struct{}
	queue   []sitecrawl.FrontierEntry
	visited int
}

// FrontierOption configures a Frontier.
type FrontierOption func(*frontierConfig)

type frontierConfig struct {
	order        sitecrawl.Order
	maxDepth     int
	maxPages     int
	expectedURLs uint
}

// WithOrder sets the pop order. Defaults to OrderFIFO.
func WithOrder(order sitecrawl.Order) FrontierOption {
	return func(c *frontierConfig) {
		c.order = order
	}
}

// WithMaxDepth rejects pushes deeper than depth. A negative depth disables
// the limit, which is the default.
func WithMaxDepth(depth int) FrontierOption {
	return func(c *frontierConfig) {
		c.maxDepth = depth
	}
}

// WithMaxPages caps the number of distinct URLs the frontier ever accepts.
// Zero disables the cap, which is the default.
func WithMaxPages(n int) FrontierOption {
	return func(c *frontierConfig) {
		c.maxPages = n
	}
}

// WithExpectedURLs sizes the Bloom filter.
func WithExpectedURLs(n uint) FrontierOption {
	return func(c *frontierConfig) {
		c.expectedURLs = n
	}
}

// NewFrontier creates an empty Frontier.
func NewFrontier(opts ...FrontierOption) *Frontier {
	cfg := frontierConfig{
		order:        sitecrawl.OrderFIFO,
		maxDepth:     -1,
		expectedURLs: DefaultExpectedURLs,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPages > 0 && uint(cfg.maxPages) > cfg.expectedURLs {
		cfg.expectedURLs = uint(cfg.maxPages)
	}
	return &Frontier{
		order:    cfg.order,
		maxDepth: cfg.maxDepth,
		maxPages: cfg.maxPages,
		filter:   bloom.NewFilter(cfg.expectedURLs, DefaultFalsePositiveRate),
		seen:     make(map[string]struct{}),
	}
}

// Push normalizes url and enqueues it at depth.
// Returns false if the URL is invalid, already seen, deeper than the depth
// limit, or the frontier has accepted its maximum number of URLs.
func (f *Frontier) Push(url string, depth int) bool {
	canonical, err := sitecrawl.NormalizeURL(url, "")
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maxDepth >= 0 && depth > f.maxDepth {
		return false
	}
	if f.seenLocked(canonical) {
		return false
	}
	if f.maxPages > 0 && len(f.seen) >= f.maxPages {
		return false
	}

	f.filter.Add(canonical)
	f.seen[canonical] = struct{}{}
	f.queue = append(f.queue, sitecrawl.FrontierEntry{URL: canonical, Depth: depth})
	return true
}

// Pop returns the next entry: the oldest for FIFO, the newest for LIFO.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitecrawl.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return sitecrawl.FrontierEntry{}, false
	}

	var entry sitecrawl.FrontierEntry
	if f.order == sitecrawl.OrderLIFO {
		last := len(f.queue) - 1
		entry = f.queue[last]
		f.queue = f.queue[:last]
	} else {
		entry = f.queue[0]
		f.queue[0] = sitecrawl.FrontierEntry{}
		f.queue = f.queue[1:]
	}
	f.visited++
	return entry, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed.
// The URL is normalized before checking.
func (f *Frontier) Seen(url string) bool {
	canonical, err := sitecrawl.NormalizeURL(url, "")
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seenLocked(canonical)
}

// Visited returns the number of entries popped so far.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited
}

func (f *Frontier) seenLocked(canonical string) bool {
	if !f.filter.Test(canonical) {
		return false
	}
	_, ok := f.seen[canonical]
	return ok
}
