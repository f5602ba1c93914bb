package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/booktalk"
)

// Ensure LoggingRetriever implements booktalk.Retriever.
var _ booktalk.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with logging.
type LoggingRetriever struct {
	next   booktalk.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next booktalk.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the result scores.
func (r *LoggingRetriever) Retrieve(ctx context.Context, question string, k int) (results []booktalk.SearchResult, err error) {
	defer func(begin time.Time) {
		var top float32
		if len(results) > 0 {
			top = results[0].Score
		}
		r.logger.Info("retrieve",
			"k", k,
			"count", len(results),
			"top_score", top,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Retrieve(ctx, question, k)
}
