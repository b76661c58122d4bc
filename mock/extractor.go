package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.HTMLExtractor = (*HTMLExtractor)(nil)

// HTMLExtractor is a mock implementation of sitecrawl.HTMLExtractor.
type HTMLExtractor struct {
	ExtractFn func(pageURL, rawHTML string) (*sitecrawl.PageRecord, error)
}

func (e *HTMLExtractor) Extract(pageURL, rawHTML string) (*sitecrawl.PageRecord, error) {
	return e.ExtractFn(pageURL, rawHTML)
}

var _ sitecrawl.PDFParser = (*PDFParser)(nil)

// PDFParser is a mock implementation of sitecrawl.PDFParser.
type PDFParser struct {
	ExtractPagesFn func(data []byte) ([]string, error)
}

func (p *PDFParser) ExtractPages(data []byte) ([]string, error) {
	return p.ExtractPagesFn(data)
}

var _ sitecrawl.OCR = (*OCR)(nil)

// OCR is a mock implementation of sitecrawl.OCR.
type OCR struct {
	OCRTextFn func(ctx context.Context, data []byte) (string, error)
}

func (o *OCR) OCRText(ctx context.Context, data []byte) (string, error) {
	return o.OCRTextFn(ctx, data)
}

var _ sitecrawl.PDFExtractor = (*PDFExtractor)(nil)

// PDFExtractor is a mock implementation of sitecrawl.PDFExtractor.
type PDFExtractor struct {
	ExtractFn func(ctx context.Context, url string, data []byte) (*sitecrawl.PDFRecord, error)
}

func (e *PDFExtractor) Extract(ctx context.Context, url string, data []byte) (*sitecrawl.PDFRecord, error) {
	return e.ExtractFn(ctx, url, data)
}

var _ sitecrawl.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of sitecrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*sitecrawl.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*sitecrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}
