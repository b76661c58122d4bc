package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var _ sitecrawl.ContentExtractor = (*Extractor)(nil)

// Extractor isolates the main content of a page with go-readability.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ForURL returns a copy of e that resolves relative links in the content
// against rawURL. An unparsable rawURL leaves links untouched.
func (e *Extractor) ForURL(rawURL string) *Extractor {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &Extractor{}
	}
	return &Extractor{pageURL: u}
}

// Extract returns the article title and content. A document readability
// cannot score yields an empty ContentHTML rather than an error.
func (e *Extractor) Extract(rawHTML string) (*sitecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "empty HTML input")
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "parsing HTML: %v", err)
	}

	article, err := readability.FromDocument(doc, e.pageURL)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "extracting article: %v", err)
	}

	return &sitecrawl.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: strings.TrimSpace(article.Content),
	}, nil
}
