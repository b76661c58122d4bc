package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ sitecrawl.ContentExtractor = (*Extractor)(nil)

// Extractor isolates the main content of a page with go-trafilatura.
type Extractor struct {
	opts trafilatura.Options
}

// Option configures an Extractor.
type Option func(*trafilatura.Options)

// WithLinks keeps anchors in the extracted content.
func WithLinks() Option {
	return func(o *trafilatura.Options) {
		o.IncludeLinks = true
	}
}

// WithoutTables drops tables from the extracted content.
func WithoutTables() Option {
	return func(o *trafilatura.Options) {
		o.ExcludeTables = true
	}
}

// NewExtractor creates an Extractor that falls back to readability-style
// heuristics when trafilatura finds too little content.
func NewExtractor(opts ...Option) *Extractor {
	o := trafilatura.Options{
		EnableFallback: true,
		Deduplicate:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Extractor{opts: o}
}

// Extract returns the page title and main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*sitecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "extracting main content: %v", err)
	}

	out := &sitecrawl.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "rendering main content: %v", err)
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
