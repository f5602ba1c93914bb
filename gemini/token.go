package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/booktalk"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ booktalk.TokenCounter = (*TokenCounter)(nil)

// TokenCounter measures prompts with the local Gemini tokenizer. No request
// is made to the API.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer of model. An empty model selects
// DefaultModel. Returns EINVALID for models without a local tokenizer.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, booktalk.Errorf(booktalk.EINVALID, "no local tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens text occupies as a user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return int(result.TotalTokens), nil
}
