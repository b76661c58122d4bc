package sitecrawl

import "context"

// HTMLExtractor turns raw HTML into a PageRecord.
type HTMLExtractor interface {
	// Extract parses rawHTML fetched from pageURL. Malformed markup degrades
	// to empty fields; only an unusable pageURL is an error.
	Extract(pageURL, rawHTML string) (*PageRecord, error)
}

// PDFParser reads the embedded text layer of a PDF.
type PDFParser interface {
	// ExtractPages returns the plain text of every page in page order.
	ExtractPages(data []byte) ([]string, error)
}

// OCR transcribes documents that have no usable text layer.
type OCR interface {
	// OCRText returns the recognized text of the PDF. Failures are EOCR.
	OCRText(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor turns PDF bytes into a PDFRecord, using OCR when the native
// text layer is missing or too short.
type PDFExtractor interface {
	Extract(ctx context.Context, url string, data []byte) (*PDFRecord, error)
}

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor isolates the main content of an HTML page.
type ContentExtractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
