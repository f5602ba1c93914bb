package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/booktalk"
)

// Ensure LoggingGenerator implements booktalk.Generator.
var _ booktalk.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging. When a TokenCounter is
// set, the prompt size is logged in tokens.
type LoggingGenerator struct {
	next   booktalk.Generator
	tokens booktalk.TokenCounter
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator. tokens may be nil.
func NewLoggingGenerator(next booktalk.Generator, tokens booktalk.TokenCounter, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, tokens: tokens, logger: logger}
}

// Generate delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (answer string, err error) {
	args := []any{"prompt_chars", len(prompt)}
	if g.tokens != nil {
		if n, terr := g.tokens.CountTokens(ctx, prompt); terr == nil {
			args = append(args, "prompt_tokens", n)
		}
	}

	defer func(begin time.Time) {
		g.logger.Info("generate",
			append(args,
				"answer_chars", len(answer),
				"duration", time.Since(begin),
				"err", err,
			)...,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}
