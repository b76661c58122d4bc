package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitecrawl.HTMLExtractor at compile time.
var _ sitecrawl.HTMLExtractor = (*Extractor)(nil)

// boilerplateSelector matches subtrees removed before headings and text
// are collected.
const boilerplateSelector = "script, style, nav, footer, header, aside, form"

// Extractor builds PageRecords from raw HTML.
//
// Forms and links are read from the complete document. Headings and text
// are read after boilerplate subtrees have been removed, so navigation menus
// still feed the frontier but never leak into the text.
type Extractor struct {
	scope sitecrawl.Scope
	now   func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNow sets the clock used for record timestamps.
func WithNow(fn func() time.Time) Option {
	return func(e *Extractor) {
		e.now = fn
	}
}

// NewExtractor creates an Extractor that splits links using scope.
func NewExtractor(scope sitecrawl.Scope, opts ...Option) *Extractor {
	e := &Extractor{
		scope: scope,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML fetched from pageURL.
// Missing elements produce empty fields; only an invalid pageURL is an error.
func (e *Extractor) Extract(pageURL, rawHTML string) (*sitecrawl.PageRecord, error) {
	canonical, err := sitecrawl.NormalizeURL(pageURL, "")
	if err != nil {
		return nil, err
	}
	// References resolve against the URL as fetched; the canonical form
	// drops the trailing slash that directory-relative links depend on.
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "invalid page URL: %v", err)
	}
	base.Fragment, base.RawFragment = "", ""

	rec := &sitecrawl.PageRecord{
		URL:           canonical,
		Domain:        hostOf(canonical),
		Headings:      []string{},
		Forms:         []sitecrawl.FormSpec{},
		Links:         []string{},
		ExternalLinks: []string{},
		Meta:          map[string]string{},
		Chunks:        []string{},
		Timestamp:     e.now(),
	}

	// The HTML5 parser recovers from any byte sequence; an error here means
	// the reader failed, which a strings.Reader never does.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rec, nil
	}

	rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	rec.Meta = extractMeta(doc)
	rec.Forms = extractForms(doc, base)
	rec.Links, rec.ExternalLinks = e.extractLinks(doc, base.String())

	doc.Find(boilerplateSelector).Remove()

	rec.Headings = extractHeadings(doc)
	rec.Text = extractText(doc)

	return rec, nil
}

// extractMeta collects meta tags carrying both name and content.
// A repeated name keeps its last content.
func extractMeta(doc *goquery.Document) map[string]string {
	meta := map[string]string{}
	doc.Find("meta[name][content]").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.AttrOr("name", ""))
		if name == "" {
			return
		}
		meta[name] = strings.TrimSpace(s.AttrOr("content", ""))
	})
	return meta
}

func extractForms(doc *goquery.Document, base *url.URL) []sitecrawl.FormSpec {
	forms := []sitecrawl.FormSpec{}
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		spec := sitecrawl.FormSpec{
			Action: base.String(),
			Method: "GET",
			Fields: []sitecrawl.FieldSpec{},
		}
		if action, ok := form.Attr("action"); ok && strings.TrimSpace(action) != "" {
			if ref, err := url.Parse(strings.TrimSpace(action)); err == nil {
				spec.Action = base.ResolveReference(ref).String()
			}
		}
		if method := strings.TrimSpace(form.AttrOr("method", "")); method != "" {
			spec.Method = strings.ToUpper(method)
		}

		form.Find("input, select, textarea").Each(func(_ int, field *goquery.Selection) {
			spec.Fields = append(spec.Fields, fieldSpec(field))
		})
		forms = append(forms, spec)
	})
	return forms
}

func fieldSpec(s *goquery.Selection) sitecrawl.FieldSpec {
	tag := goquery.NodeName(s)
	f := sitecrawl.FieldSpec{
		Type:     tag,
		Required: hasAttr(s, "required"),
	}
	if typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", ""))); typ != "" {
		f.Type = typ
	} else if tag == "input" {
		// An input without a type attribute is a text input.
		f.Type = "text"
	}
	if name, ok := s.Attr("name"); ok {
		f.Name = &name
	}
	if placeholder, ok := s.Attr("placeholder"); ok {
		f.Placeholder = &placeholder
	}
	return f
}

func hasAttr(s *goquery.Selection, name string) bool {
	_, ok := s.Attr(name)
	return ok
}

// extractLinks returns in-scope and external links in document order,
// each deduplicated. Links that cannot be normalized or do not use http(s)
// are dropped.
func (e *Extractor) extractLinks(doc *goquery.Document, pageURL string) (internal, external []string) {
	internal, external = []string{}, []string{}
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}
		link, err := sitecrawl.NormalizeURL(href, pageURL)
		if err != nil || !isWebURL(link) || seen[link] {
			return
		}
		seen[link] = true

		if e.scope.Contains(link) {
			internal = append(internal, link)
		} else {
			external = append(external, link)
		}
	})
	return internal, external
}

func hostOf(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return ""
	}
	return u.Host
}

func extractHeadings(doc *goquery.Document) []string {
	headings := []string{}
	doc.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		if text := collapseSpace(h.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	return headings
}

// extractText joins every text node of the body with single spaces.
func extractText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "noscript" || n.Data == "template") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}
	return collapseSpace(strings.Join(parts, " "))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isWebURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
