package mock

import (
	"context"

	"github.com/fwojciec/booktalk"
)

var _ booktalk.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of booktalk.TextExtractor.
type TextExtractor struct {
	BodyHTMLFn    func(document string) (string, error)
	ExtractTextFn func(markup string) (string, error)
}

func (e *TextExtractor) BodyHTML(document string) (string, error) {
	return e.BodyHTMLFn(document)
}

func (e *TextExtractor) ExtractText(markup string) (string, error) {
	return e.ExtractTextFn(markup)
}

var _ booktalk.BookExtractor = (*BookExtractor)(nil)

// BookExtractor is a mock implementation of booktalk.BookExtractor.
type BookExtractor struct {
	ExtractFileFn func(ctx context.Context, path string) (*booktalk.Book, error)
	ExtractFn     func(ctx context.Context, data []byte) (*booktalk.Book, error)
}

func (e *BookExtractor) ExtractFile(ctx context.Context, path string) (*booktalk.Book, error) {
	return e.ExtractFileFn(ctx, path)
}

func (e *BookExtractor) Extract(ctx context.Context, data []byte) (*booktalk.Book, error) {
	return e.ExtractFn(ctx, data)
}
