// Package crawl provides site crawling orchestration.
// It coordinates the frontier, fetching, rendering, extraction, chunking and
// persistence of pages and PDFs, and writes the crawl manifest.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// Crawler orchestrates the crawling of one site.
//
// Fetcher, HTML and Storage are required. Renderer, JSDetector, PDF,
// MainContent, Converter, TokenCounter and RateLimiter are optional.
type Crawler struct {
	Fetcher      sitecrawl.Fetcher
	Renderer     sitecrawl.Renderer
	JSDetector   sitecrawl.JSDetector
	HTML         sitecrawl.HTMLExtractor
	PDF          sitecrawl.PDFExtractor
	MainContent  sitecrawl.ContentExtractor
	Converter    sitecrawl.Converter
	Storage      sitecrawl.Storage
	TokenCounter sitecrawl.TokenCounter
	RateLimiter  sitecrawl.DomainLimiter

	// Logger receives retry attempts. Nil disables logging.
	Logger *slog.Logger

	Concurrency int
	// MaxPages caps the URLs processed per crawl. Zero means unlimited.
	MaxPages int
	// MaxDepth limits link depth from the seeds. Negative means unlimited.
	MaxDepth int
	Order    sitecrawl.Order

	FetchTimeout time.Duration
	RetryDelays  []time.Duration

	RenderMode sitecrawl.RenderMode
	RenderWait time.Duration

	ChunkSize     int
	MinChunkWords int

	Now func() time.Time
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Pages       int
	PDFs        int
	Failed      int
	Unsupported int
	External    int
	Chunks      int
	Bytes       int
	Tokens      int
	Manifest    *sitecrawl.Manifest
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Document is the processed form of one fetched URL.
// Exactly one of Page and PDF is set unless Kind is ContentUnsupported.
type Document struct {
	Kind sitecrawl.ContentKind
	Page *sitecrawl.PageRecord
	PDF  *sitecrawl.PDFRecord
	// Tokens is zero unless a TokenCounter is configured.
	Tokens int
}

// Process fetches, classifies, extracts and chunks a single URL without
// persisting anything.
func (c *Crawler) Process(ctx context.Context, rawURL string) (*Document, error) {
	canonical, err := sitecrawl.NormalizeURL(rawURL, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.fetch(ctx, canonical)
	if err != nil {
		return nil, err
	}

	finalURL := canonical
	if resp.URL != "" {
		finalURL = resp.URL
	}

	doc := &Document{Kind: sitecrawl.Classify(finalURL, resp.Header)}
	switch doc.Kind {
	case sitecrawl.ContentHTML:
		doc.Page, err = c.processHTML(ctx, canonical, finalURL, string(resp.Body))
		if err != nil {
			return nil, err
		}
		doc.Tokens = c.countTokens(ctx, doc.Page.Text)
	case sitecrawl.ContentPDF:
		doc.PDF, err = c.processPDF(ctx, canonical, resp.Body)
		if err != nil {
			return nil, err
		}
		doc.Tokens = c.countTokens(ctx, doc.PDF.Text)
	}
	return doc, nil
}

// fetch waits for the domain's politeness slot and fetches url with
// retries, bounding each attempt by FetchTimeout.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (*sitecrawl.Response, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "invalid URL %q", rawURL)
		}
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "waiting for %s: %v", u.Hostname(), err)
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchFn := func(ctx context.Context, url string) (*sitecrawl.Response, error) {
		if c.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
			defer cancel()
		}
		return c.Fetcher.Fetch(ctx, url)
	}

	resp, err := FetchWithRetryDelays(ctx, rawURL, fetchFn, c.retryLogger(), delays)
	if err != nil {
		return nil, withCode(sitecrawl.EFETCH, err)
	}
	return resp, nil
}

// retryLogger adapts Logger to the retry loop's LogFunc.
func (c *Crawler) retryLogger() LogFunc {
	if c.Logger == nil {
		return nil
	}
	return func(format string, args ...any) {
		c.Logger.Warn("fetch retry", "detail", fmt.Sprintf(format, args...))
	}
}

// processHTML optionally renders the page, extracts it and fills in
// chunks, content hash and the Markdown rendition. Relative references
// resolve against fetchedURL, the URL after redirects; the record stays
// keyed by the canonical URL that was requested.
func (c *Crawler) processHTML(ctx context.Context, canonical, fetchedURL, html string) (*sitecrawl.PageRecord, error) {
	if c.shouldRender(html) {
		rendered, err := c.Renderer.Render(ctx, fetchedURL, c.RenderWait)
		if err != nil {
			return nil, withCode(sitecrawl.EFETCH, err)
		}
		html = rendered
	}

	rec, err := c.HTML.Extract(fetchedURL, html)
	if err != nil {
		return nil, withCode(sitecrawl.EPARSE, err)
	}
	rec.URL = canonical

	rec.Chunks = c.chunk(rec.Text)
	rec.ContentHash = computeHash(rec.Text)
	rec.Markdown = c.markdown(html)
	return rec, nil
}

func (c *Crawler) shouldRender(html string) bool {
	if c.Renderer == nil {
		return false
	}
	switch c.RenderMode {
	case sitecrawl.RenderAlways:
		return true
	case sitecrawl.RenderAuto:
		return c.JSDetector != nil && c.JSDetector.RequiresJS(html)
	default:
		return false
	}
}

// markdown returns the Markdown rendition of the page's main content, or ""
// when no rendition is configured or it fails.
func (c *Crawler) markdown(html string) string {
	if c.MainContent == nil || c.Converter == nil {
		return ""
	}
	extracted, err := c.MainContent.Extract(html)
	if err != nil {
		return ""
	}
	md, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return ""
	}
	return md
}

func (c *Crawler) processPDF(ctx context.Context, docURL string, data []byte) (*sitecrawl.PDFRecord, error) {
	if c.PDF == nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "no PDF extractor configured")
	}
	rec, err := c.PDF.Extract(ctx, docURL, data)
	if err != nil {
		return nil, withCode(sitecrawl.EPARSE, err)
	}
	rec.Chunks = c.chunk(rec.Text)
	rec.ContentHash = computeHash(rec.Text)
	return rec, nil
}

func (c *Crawler) chunk(text string) []string {
	size := c.ChunkSize
	if size <= 0 {
		size = sitecrawl.DefaultChunkSize
	}
	minWords := c.MinChunkWords
	if minWords < 0 {
		minWords = 0
	}
	chunks := sitecrawl.ChunkText(text, size, minWords)
	if chunks == nil {
		chunks = []string{}
	}
	return chunks
}

func (c *Crawler) countTokens(ctx context.Context, text string) int {
	if c.TokenCounter == nil {
		return 0
	}
	tokens, err := c.TokenCounter.CountTokens(ctx, text)
	if err != nil {
		return 0
	}
	return tokens
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

// withCode gives err the code unless it already carries an application
// error code.
func withCode(code string, err error) error {
	var e *sitecrawl.Error
	if errors.As(err, &e) {
		return err
	}
	return sitecrawl.Errorf(code, "%v", err)
}
