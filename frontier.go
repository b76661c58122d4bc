package sitecrawl

import "context"

// FrontierEntry is a URL waiting to be crawled.
type FrontierEntry struct {
	URL   string
	Depth int
}

// Order selects how the frontier hands out entries.
type Order string

// Supported frontier orders.
const (
	// OrderFIFO crawls breadth-first: broad, shallow coverage.
	OrderFIFO Order = "fifo"
	// OrderLIFO crawls depth-first: follows a path deeply before backtracking.
	OrderLIFO Order = "lifo"
)

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL at the given depth.
	// Returns false if the URL was already seen or a cap rejects it.
	Push(url string, depth int) bool

	// Pop returns the next entry according to the frontier's order.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
