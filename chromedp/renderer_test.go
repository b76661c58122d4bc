package chromedp_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_CancelledContext(t *testing.T) {
	t.Parallel()

	r := chromedp.NewRenderer(chromedp.WithSessions(1), chromedp.WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "http://127.0.0.1:1/", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderer_Close(t *testing.T) {
	t.Parallel()

	r := chromedp.NewRenderer()
	assert.NoError(t, r.Close())
}
