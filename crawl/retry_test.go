package crawl_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func statusResponse(code int) (*sitecrawl.Response, error) {
	return &sitecrawl.Response{StatusCode: code}, sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP %d", code)
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(_ context.Context, url string) (*sitecrawl.Response, error) {
			calls.Add(1)
			return &sitecrawl.Response{URL: url, StatusCode: http.StatusOK}, nil
		}

		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries transport errors until success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(_ context.Context, _ string) (*sitecrawl.Response, error) {
			if calls.Add(1) < 3 {
				return nil, errors.New("connection reset")
			}
			return &sitecrawl.Response{StatusCode: http.StatusOK}, nil
		}

		var logged []string
		logger := func(format string, _ ...any) { logged = append(logged, format) }

		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, logger, noDelays)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), calls.Load())
		assert.Len(t, logged, 2)
	})

	t.Run("retries server errors and rate limiting", func(t *testing.T) {
		t.Parallel()

		codes := []int{http.StatusServiceUnavailable, http.StatusTooManyRequests}
		var calls atomic.Int32
		fetch := func(_ context.Context, _ string) (*sitecrawl.Response, error) {
			n := int(calls.Add(1))
			if n <= len(codes) {
				return statusResponse(codes[n-1])
			}
			return &sitecrawl.Response{StatusCode: http.StatusOK}, nil
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(_ context.Context, _ string) (*sitecrawl.Response, error) {
			calls.Add(1)
			return statusResponse(http.StatusNotFound)
		}

		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/missing", fetch, nil, noDelays)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("returns last error after all attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(_ context.Context, _ string) (*sitecrawl.Response, error) {
			calls.Add(1)
			return statusResponse(http.StatusBadGateway)
		}

		resp, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, nil, noDelays)

		assert.Equal(t, sitecrawl.EFETCH, sitecrawl.ErrorCode(err))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("stops when context is canceled during backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		fetch := func(_ context.Context, _ string) (*sitecrawl.Response, error) {
			calls.Add(1)
			cancel()
			return nil, errors.New("timeout")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.gov/", fetch, nil, []time.Duration{time.Hour})

		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}
