package rag

import (
	"context"
	"time"

	"github.com/fwojciec/booktalk"
)

// DefaultRetryDelays returns the backoff delays for embedding retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RetryFunc is called before each retry with the attempt about to be made
// and the error that caused it.
type RetryFunc func(attempt int, err error)

// embedWithRetry calls embedder once, then once more per delay while it fails
// with ESERVICE. Other errors are returned immediately.
func embedWithRetry(ctx context.Context, embedder booktalk.Embedder, texts []string, delays []time.Duration, onRetry RetryFunc) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(attempt+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delays[attempt-1]):
			}
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		if booktalk.ErrorCode(err) != booktalk.ESERVICE || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
