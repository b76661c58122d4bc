package crawl

import "github.com/fwojciec/sitecrawl"

// ContentDiffers compares the main content of statically fetched HTML with
// that of browser-rendered HTML. Returns true if the rendered content is
// significantly longer (>50%), suggesting the page needs RenderAlways or
// RenderAuto. Also returns true on extraction errors.
func ContentDiffers(staticHTML, renderedHTML string, extractor sitecrawl.ContentExtractor) bool {
	staticResult, err := extractor.Extract(staticHTML)
	if err != nil {
		return true // Assume JS needed on error
	}

	renderedResult, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true // Assume JS needed on error
	}

	staticLen := len(staticResult.ContentHTML)
	renderedLen := len(renderedResult.ContentHTML)

	// Handle empty static content
	if staticLen == 0 && renderedLen > 0 {
		return true
	}

	// Check if rendered content is >50% longer
	threshold := float64(staticLen) * 1.5
	return float64(renderedLen) > threshold
}
