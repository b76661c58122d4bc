package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Opening Hours</h1><h2>Weekends</h2><p>Closed on holidays.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Opening Hours")
		assert.Contains(t, md, "## Weekends")
		assert.Contains(t, md, "Closed on holidays.")
	})

	t.Run("links", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>See <a href="https://example.com/plan">the plan</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the plan](https://example.com/plan)")
	})

	t.Run("relative links with domain", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://example.com"))
		md, err := conv.Convert(`<p>See <a href="/plan">the plan</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "(https://example.com/plan)")
	})

	t.Run("lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "1. One")
		assert.Contains(t, md, "2. Two")
	})

	t.Run("tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><thead><tr><th>Day</th><th>Hours</th></tr></thead><tbody><tr><td>Sat</td><td>10-17</td></tr></tbody></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Day")
		assert.Contains(t, md, "| Sat")
	})

	t.Run("strikethrough", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Price <del>20</del> 15</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "~~20~~")
	})

	t.Run("code", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>Run <code>make build</code></p><pre><code class="language-sh">make test</code></pre>`)

		require.NoError(t, err)
		assert.Contains(t, md, "`make build`")
		assert.Contains(t, md, "```sh")
	})

	t.Run("blank input is EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})
}
