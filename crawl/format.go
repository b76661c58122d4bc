package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// computeHash returns the 16-character xxhash of content.
func computeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ComputeHash returns the content hash stored on page and PDF records.
func ComputeHash(content string) string {
	return computeHash(content)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatSummary describes a finished crawl in one line, for example
// "Crawled 12 pages (3 PDFs, 1 failed, 2 skipped), 48 chunks, 1.2 MB".
func FormatSummary(r *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Crawled %d pages (%d PDFs, %d failed, %d skipped), %d chunks, %s",
		r.Pages+r.PDFs, r.PDFs, r.Failed, r.Unsupported, r.Chunks, FormatBytes(r.Bytes))
	if r.Tokens > 0 {
		sb.WriteString(", ")
		sb.WriteString(FormatTokens(r.Tokens))
	}
	return sb.String()
}
