package mock

import (
	"context"

	"github.com/fwojciec/booktalk"
)

var _ booktalk.Asker = (*Asker)(nil)

// Asker is a mock implementation of booktalk.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	return a.AskFn(ctx, question)
}

var _ booktalk.Generator = (*Generator)(nil)

// Generator is a mock implementation of booktalk.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

var _ booktalk.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of booktalk.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
