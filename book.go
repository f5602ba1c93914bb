package booktalk

import "context"

// Book represents the text of an e-book extracted from an EPUB file.
// A Book is immutable once extracted.
type Book struct {
	// Content is the markup-free text of all document items, concatenated in
	// manifest order with no separator between items. Anchor elements and
	// everything nested in them are not part of it.
	Content string `json:"content"`

	// Title is the first Dublin Core title. Empty when absent.
	Title string `json:"title,omitempty"`

	// Author is the first Dublin Core creator. Empty when absent.
	Author string `json:"author,omitempty"`

	// Fingerprint identifies the EPUB bytes the book was extracted from.
	Fingerprint string `json:"fingerprint"`
}

// Label returns a human-readable name for the book, e.g. `"Emma" by Jane Austen`.
// Returns an empty string when the book has no title.
func (b *Book) Label() string {
	if b.Title == "" {
		return ""
	}
	if b.Author == "" {
		return "\"" + b.Title + "\""
	}
	return "\"" + b.Title + "\" by " + b.Author
}

// BookExtractor extracts a Book from an EPUB container.
type BookExtractor interface {
	// ExtractFile reads the EPUB at path.
	// Returns EFORMAT if the file is not a readable EPUB container and
	// EENCODING if a content document cannot be decoded as text.
	ExtractFile(ctx context.Context, path string) (*Book, error)

	// Extract reads an EPUB held in memory, e.g. an uploaded file.
	Extract(ctx context.Context, data []byte) (*Book, error)
}
