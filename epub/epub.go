// Package epub extracts the plain text and metadata of EPUB books.
package epub

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/booktalk"
)

// Ensure Extractor implements booktalk.BookExtractor.
var _ booktalk.BookExtractor = (*Extractor)(nil)

// Extractor converts EPUB files into booktalk.Book values.
//
// The body markup of every content document is concatenated in manifest
// order, anchors are removed along with their text, and the remaining
// visible text becomes the book content.
type Extractor struct {
	Text booktalk.TextExtractor

	// SkipUnreadable skips content documents that cannot be decoded as text
	// instead of failing with EENCODING. Skipped items are logged.
	SkipUnreadable bool

	Logger *slog.Logger
}

// NewExtractor creates an Extractor that strips markup with text.
func NewExtractor(text booktalk.TextExtractor) *Extractor {
	return &Extractor{Text: text}
}

// ExtractFile reads the EPUB at path and extracts it.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*booktalk.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, booktalk.Errorf(booktalk.EFORMAT, "cannot read %s: %v", path, err)
	}
	return e.Extract(ctx, data)
}

// Extract parses an in-memory EPUB.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*booktalk.Book, error) {
	a, err := openArchive(data)
	if err != nil {
		return nil, err
	}
	if err := a.checkDRM(); err != nil {
		return nil, err
	}

	opfPath, err := a.rootfile()
	if err != nil {
		return nil, err
	}
	pkg, err := a.readPackage(opfPath)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	for _, item := range pkg.documents() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := e.itemBody(a, item)
		if booktalk.ErrorCode(err) == booktalk.EENCODING && e.SkipUnreadable {
			e.logger().Warn("skipping unreadable item", "href", item.href, "error", booktalk.ErrorMessage(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		buf.WriteString(body)
	}

	content, err := e.Text.ExtractText(buf.String())
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	return &booktalk.Book{
		Content:     content,
		Title:       pkg.title,
		Author:      pkg.creator,
		Fingerprint: fmt.Sprintf("%016x", xxhash.Sum64(data)),
	}, nil
}

// itemBody returns the inner <body> markup of a content document.
func (e *Extractor) itemBody(a *archive, item manifestItem) (string, error) {
	raw, err := a.read(item.href)
	if errors.Is(err, fs.ErrNotExist) {
		return "", booktalk.Errorf(booktalk.EFORMAT, "manifest item %s not found in archive", item.href)
	}
	if err != nil {
		return "", booktalk.Errorf(booktalk.EFORMAT, "cannot read %s: %v", item.href, err)
	}

	data, err := decodeItem(item.href, raw)
	if err != nil {
		return "", err
	}

	if body, ok := xhtmlBody(data); ok {
		return body, nil
	}
	return e.Text.BodyHTML(string(data))
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
