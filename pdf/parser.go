// Package pdf reads the embedded text layer of PDF documents using
// github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"

	"github.com/fwojciec/sitecrawl"
	"github.com/ledongthuc/pdf"
)

// Ensure Parser implements sitecrawl.PDFParser at compile time.
var _ sitecrawl.PDFParser = (*Parser)(nil)

// Parser extracts per-page plain text from PDF bytes.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ExtractPages returns the plain text of every page in page order. Pages
// without content yield an empty string. Malformed documents are EPARSE.
func (p *Parser) ExtractPages(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "empty PDF document")
	}

	// The reader panics on some corrupt cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = sitecrawl.Errorf(sitecrawl.EPARSE, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "failed to open PDF: %v", err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.EPARSE, "page %d: %v", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
