package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.PDFExtractor = (*PDFExtractor)(nil)

// DefaultNativeTextMinLength is the minimum trimmed length of the native text
// layer below which a PDF is sent to OCR.
const DefaultNativeTextMinLength = 400

// PDFExtractor reads the native text layer of a PDF and falls back to OCR
// when that layer is missing or too short, as happens with scanned
// documents. It never returns the insufficient native text.
type PDFExtractor struct {
	Parser sitecrawl.PDFParser

	// OCR is optional. Without it, PDFs below the threshold fail with EOCR.
	OCR sitecrawl.OCR

	// MinNativeLength defaults to DefaultNativeTextMinLength when zero.
	MinNativeLength int

	// OCRTimeout bounds a single OCR call. Zero means no extra bound.
	OCRTimeout time.Duration

	Now func() time.Time
}

// Extract returns the text of the PDF. The caller fills in chunks and
// the content hash.
func (e *PDFExtractor) Extract(ctx context.Context, url string, data []byte) (*sitecrawl.PDFRecord, error) {
	var pages []string
	if e.Parser != nil {
		// A parse failure is treated as an empty text layer.
		if p, err := e.Parser.ExtractPages(data); err == nil {
			pages = p
		}
	}
	native := strings.Join(pages, "\n")

	rec := &sitecrawl.PDFRecord{
		URL:       url,
		Chunks:    []string{},
		Pages:     len(pages),
		Timestamp: e.now(),
	}

	if len(strings.TrimSpace(native)) >= e.minNativeLength() {
		rec.Text = native
		rec.ExtractionMethod = sitecrawl.ExtractionNative
		return rec, nil
	}

	if e.OCR == nil {
		return nil, sitecrawl.Errorf(sitecrawl.EOCR, "no OCR backend configured")
	}

	if e.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.OCRTimeout)
		defer cancel()
	}

	text, err := e.OCR.OCRText(ctx, data)
	if err != nil {
		if sitecrawl.ErrorCode(err) == sitecrawl.EOCR {
			return nil, err
		}
		return nil, sitecrawl.Errorf(sitecrawl.EOCR, "OCR failed for %s: %v", url, err)
	}

	rec.Text = text
	rec.ExtractionMethod = sitecrawl.ExtractionOCR
	return rec, nil
}

func (e *PDFExtractor) minNativeLength() int {
	if e.MinNativeLength > 0 {
		return e.MinNativeLength
	}
	return DefaultNativeTextMinLength
}

func (e *PDFExtractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}
