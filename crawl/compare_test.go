package crawl_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/mock"
	"github.com/stretchr/testify/assert"
)

// lengthExtractor returns the given main content for the static and
// rendered inputs.
func lengthExtractor(static, rendered string) *mock.ContentExtractor {
	return &mock.ContentExtractor{
		ExtractFn: func(html string) (*sitecrawl.ExtractResult, error) {
			if html == "static" {
				return &sitecrawl.ExtractResult{ContentHTML: static}, nil
			}
			return &sitecrawl.ExtractResult{ContentHTML: rendered}, nil
		},
	}
}

func TestContentDiffers(t *testing.T) {
	t.Parallel()

	t.Run("rendered content more than 50% longer", func(t *testing.T) {
		t.Parallel()

		e := lengthExtractor("short content", "rendered content with every council agenda item")

		assert.True(t, crawl.ContentDiffers("static", "rendered", e))
	})

	t.Run("similar lengths", func(t *testing.T) {
		t.Parallel()

		e := lengthExtractor("some content here", "similar size text")

		assert.False(t, crawl.ContentDiffers("static", "rendered", e))
	})

	t.Run("exactly 50% longer is not enough", func(t *testing.T) {
		t.Parallel()

		e := lengthExtractor("0123456789", "012345678901234")

		assert.False(t, crawl.ContentDiffers("static", "rendered", e))
	})

	t.Run("empty static content", func(t *testing.T) {
		t.Parallel()

		assert.True(t, crawl.ContentDiffers("static", "rendered", lengthExtractor("", "x")))
		assert.False(t, crawl.ContentDiffers("static", "rendered", lengthExtractor("", "")))
	})

	t.Run("extraction failure assumes rendering is needed", func(t *testing.T) {
		t.Parallel()

		e := &mock.ContentExtractor{
			ExtractFn: func(html string) (*sitecrawl.ExtractResult, error) {
				if html == "rendered" {
					return nil, errors.New("boom")
				}
				return &sitecrawl.ExtractResult{ContentHTML: "static"}, nil
			},
		}

		assert.True(t, crawl.ContentDiffers("static", "rendered", e))
	})
}
