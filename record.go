package sitecrawl

import (
	"bytes"
	"encoding/json"
	"time"
)

// PageRecord is the structured result of extracting one HTML page.
// It is fully built before it is persisted and never mutated afterwards.
type PageRecord struct {
	URL           string            `json:"url"`
	Domain        string            `json:"domain"`
	Title         string            `json:"title"`
	Text          string            `json:"text"`
	Headings      []string          `json:"headings"`
	Forms         []FormSpec        `json:"forms"`
	Links         []string          `json:"links"`
	ExternalLinks []string          `json:"external_links"`
	Meta          map[string]string `json:"meta"`
	Chunks        []string          `json:"chunks"`
	Markdown      string            `json:"markdown,omitempty"`
	ContentHash   string            `json:"content_hash"`
	Timestamp     time.Time         `json:"timestamp"`
}

// FormSpec describes an HTML form found on a page.
type FormSpec struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FieldSpec `json:"fields"`
}

// FieldSpec describes a single input, select or textarea of a form.
type FieldSpec struct {
	Name        *string `json:"name"`
	Type        string  `json:"type"`
	Required    bool    `json:"required"`
	Placeholder *string `json:"placeholder"`
}

// Extraction methods recorded on a PDFRecord.
const (
	ExtractionNative = "native"
	ExtractionOCR    = "ocr"
)

// PDFRecord is the result of extracting text from a PDF document.
type PDFRecord struct {
	URL              string    `json:"url"`
	Text             string    `json:"text"`
	Chunks           []string  `json:"chunks"`
	ExtractionMethod string    `json:"extraction_method"`
	Pages            int       `json:"pages"`
	ContentHash      string    `json:"content_hash"`
	Timestamp        time.Time `json:"timestamp"`
}

// ErrorRecord is the terminal state of a URL that failed at any stage.
type ErrorRecord struct {
	URL          string    `json:"url"`
	ErrorMessage string    `json:"error_message"`
	Code         string    `json:"code"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorRecord builds an ErrorRecord from err.
func NewErrorRecord(url string, err error, now time.Time) *ErrorRecord {
	return &ErrorRecord{
		URL:          url,
		ErrorMessage: ErrorMessage(err),
		Code:         ErrorCode(err),
		Timestamp:    now,
	}
}

// ExternalLinkRecord is the lightweight record kept for a link that leaves
// the crawl scope. External links are never crawled.
type ExternalLinkRecord struct {
	URL          string    `json:"url"`
	SourceURL    string    `json:"source_url"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// FormsRecord groups the forms of one page into their own artifact.
type FormsRecord struct {
	SourceURL string     `json:"source_url"`
	Forms     []FormSpec `json:"forms"`
}

// Manifest entry kinds.
const (
	KindPage = "page"
	KindPDF  = "pdf"
)

// Manifest domain types.
const (
	DomainPrimary   = "primary"
	DomainSecondary = "secondary"
)

// Manifest summarizes every page and PDF persisted during one crawl run.
// TotalPages always equals len(Pages).
type Manifest struct {
	RunID       string          `json:"run_id"`
	TotalPages  int             `json:"total_pages"`
	Failed      int             `json:"failed"`
	Unsupported int             `json:"unsupported"`
	GeneratedAt time.Time       `json:"generated_at"`
	Pages       []ManifestEntry `json:"pages"`
}

// ManifestEntry points at one persisted artifact.
type ManifestEntry struct {
	URL        string `json:"url"`
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	DomainType string `json:"domain_type"`
}

// MarshalArtifact encodes v as indented JSON without escaping HTML
// characters, the format used for every persisted artifact.
func MarshalArtifact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, Errorf(EINTERNAL, "encoding artifact: %v", err)
	}
	return buf.Bytes(), nil
}
