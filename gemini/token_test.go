package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	var _ sitecrawl.TokenCounter = tc

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Building permits are issued by the city.")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("blank text returns zero", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{"", "  \n\t"} {
			count, err := tc.CountTokens(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, 0, count)
		}
	})

	t.Run("longer text returns more tokens", func(t *testing.T) {
		t.Parallel()

		shortCount, err := tc.CountTokens(context.Background(), "Permits")
		require.NoError(t, err)

		longCount, err := tc.CountTokens(context.Background(), "Permits for fences, decks and sheds are reviewed within ten business days of submission.")
		require.NoError(t, err)

		assert.Greater(t, longCount, shortCount)
	})
}
