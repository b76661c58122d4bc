package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/sitecrawl"
	"golang.org/x/time/rate"
)

var _ sitecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain, allowing concurrent
// requests to different domains while enforcing rate limits within each domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests per second limit.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
	}
}

// NewDelayLimiter creates a DomainLimiter that spaces requests to one domain
// at least delay apart. A non-positive delay disables limiting.
func NewDelayLimiter(delay time.Duration) *DomainLimiter {
	l := NewDomainLimiter(0)
	l.limit = rate.Inf
	if delay > 0 {
		l.limit = rate.Every(delay)
	}
	return l
}

// Wait blocks until the rate limit allows a request to the domain.
// Domains are compared case-insensitively.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
