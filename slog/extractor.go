package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/booktalk"
)

// Ensure LoggingBookExtractor implements booktalk.BookExtractor.
var _ booktalk.BookExtractor = (*LoggingBookExtractor)(nil)

// LoggingBookExtractor wraps a BookExtractor with logging.
type LoggingBookExtractor struct {
	next   booktalk.BookExtractor
	logger *slog.Logger
}

// NewLoggingBookExtractor creates a new LoggingBookExtractor.
func NewLoggingBookExtractor(next booktalk.BookExtractor, logger *slog.Logger) *LoggingBookExtractor {
	return &LoggingBookExtractor{next: next, logger: logger}
}

// ExtractFile delegates to the wrapped extractor and logs the operation.
func (e *LoggingBookExtractor) ExtractFile(ctx context.Context, path string) (book *booktalk.Book, err error) {
	defer func(begin time.Time) {
		e.log("book extraction", book, time.Since(begin), err, "path", path)
	}(time.Now())
	return e.next.ExtractFile(ctx, path)
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingBookExtractor) Extract(ctx context.Context, data []byte) (book *booktalk.Book, err error) {
	defer func(begin time.Time) {
		e.log("book extraction", book, time.Since(begin), err, "bytes", len(data))
	}(time.Now())
	return e.next.Extract(ctx, data)
}

func (e *LoggingBookExtractor) log(msg string, book *booktalk.Book, d time.Duration, err error, args ...any) {
	if book != nil {
		args = append(args,
			"title", book.Title,
			"author", book.Author,
			"chars", len([]rune(book.Content)),
		)
	}
	args = append(args, "duration", d, "err", err)
	e.logger.Info(msg, args...)
}
