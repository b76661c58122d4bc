package sitecrawl

import (
	"context"
	"strings"
)

// Chunking defaults.
const (
	DefaultChunkSize     = 300
	DefaultMinChunkWords = 30
)

// ChunkText splits text on whitespace and groups consecutive words into
// windows of exactly size words; the last window may be shorter. Each window
// is joined with single spaces and kept only if it has more than minWords
// words. Sentence and paragraph boundaries are ignored.
// A non-positive size yields no chunks.
func ChunkText(text string, size, minWords int) []string {
	if size <= 0 {
		return nil
	}

	words := strings.Fields(text)
	chunks := make([]string, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		window := words[start:end]
		if len(window) <= minWords {
			continue
		}
		chunks = append(chunks, strings.Join(window, " "))
	}
	return chunks
}

// TokenCounter counts model tokens in extracted text. It is only used for
// crawl statistics; chunk boundaries are always word based.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
