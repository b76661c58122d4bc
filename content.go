package sitecrawl

import (
	"net/http"
	"net/url"
	"strings"
)

// ContentKind identifies how a fetched response is processed.
type ContentKind int

// Content kinds produced by Classify.
const (
	ContentUnsupported ContentKind = iota
	ContentHTML
	ContentPDF
)

// String returns the lower-case kind name.
func (k ContentKind) String() string {
	switch k {
	case ContentHTML:
		return "html"
	case ContentPDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// Classify decides whether a response is HTML, PDF or unsupported.
//
// The URL suffix is checked before the Content-Type header because some
// servers label PDF downloads as text/html or application/octet-stream.
// A missing Content-Type is treated as HTML.
func Classify(rawURL string, header http.Header) ContentKind {
	if hasPDFSuffix(rawURL) {
		return ContentPDF
	}

	contentType := strings.ToLower(header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "pdf"):
		return ContentPDF
	case contentType == "", strings.Contains(contentType, "html"):
		return ContentHTML
	default:
		return ContentUnsupported
	}
}

// IsPDFURL reports whether the URL path ends in ".pdf" (case-insensitive).
func IsPDFURL(rawURL string) bool {
	return hasPDFSuffix(rawURL)
}

func hasPDFSuffix(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
