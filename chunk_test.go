package sitecrawl_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words returns n distinct words separated by mixed whitespace.
func words(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			if i%7 == 0 {
				sb.WriteString("\n\t ")
			} else {
				sb.WriteString(" ")
			}
		}
		fmt.Fprintf(&sb, "w%d", i)
	}
	return sb.String()
}

func TestChunkText(t *testing.T) {
	t.Parallel()

	t.Run("reconstructs the word sequence without a minimum", func(t *testing.T) {
		t.Parallel()

		text := words(1234)

		chunks := sitecrawl.ChunkText(text, 100, 0)

		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
	})

	t.Run("every chunk but the last has exactly size words", func(t *testing.T) {
		t.Parallel()

		chunks := sitecrawl.ChunkText(words(1234), 100, 0)

		require.Len(t, chunks, 13)
		for _, c := range chunks[:len(chunks)-1] {
			assert.Len(t, strings.Fields(c), 100)
		}
		assert.Len(t, strings.Fields(chunks[len(chunks)-1]), 34)
	})

	t.Run("joins words with single spaces", func(t *testing.T) {
		t.Parallel()

		chunks := sitecrawl.ChunkText("  alpha\n\nbeta\t gamma  ", 2, 0)

		assert.Equal(t, []string{"alpha beta", "gamma"}, chunks)
	})

	t.Run("drops windows with at most minWords words", func(t *testing.T) {
		t.Parallel()

		chunks := sitecrawl.ChunkText(words(130), 50, 30)

		require.Len(t, chunks, 2)
		assert.Len(t, strings.Fields(chunks[0]), 50)
		assert.Len(t, strings.Fields(chunks[1]), 50)
	})

	t.Run("window of exactly minWords words is dropped", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, sitecrawl.ChunkText(words(30), 300, 30))
		assert.Len(t, sitecrawl.ChunkText(words(31), 300, 30), 1)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		text := words(777)

		assert.Equal(t, sitecrawl.ChunkText(text, 64, 10), sitecrawl.ChunkText(text, 64, 10))
	})

	t.Run("empty text and non-positive size yield no chunks", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, sitecrawl.ChunkText("", 10, 0))
		assert.Empty(t, sitecrawl.ChunkText("   \n ", 10, 0))
		assert.Nil(t, sitecrawl.ChunkText("a b c", 0, 0))
	})
}
