package crawl

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*sitecrawl.Response, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays fetches url, retrying after each of delays in turn.
// The logger, if provided, is called for each retry attempt. Only transient failures are retried: transport errors, 5xx and 429
// responses. Any other non-2xx response is returned at once along with its
// error.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*sitecrawl.Response, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastResp *sitecrawl.Response
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastResp, lastErr = resp, err

		if !retryable(resp) || attempt >= maxAttempts-1 || ctx.Err() != nil {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return lastResp, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastResp, lastErr
}

// retryable reports whether a failed fetch may succeed on a later attempt.
func retryable(resp *sitecrawl.Response) bool {
	if resp == nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}
