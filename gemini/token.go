package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ sitecrawl.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens in extracted text using the local Gemini
// tokenizer. No API calls are made.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
// An empty model selects DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in text. Whitespace-only text
// has no tokens.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, sitecrawl.Errorf(sitecrawl.EINTERNAL, "counting tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
