package booktalk

import (
	"context"
)

// DefaultCollection is the index collection books are stored under.
const DefaultCollection = "book"

// Fragment represents a contiguous slice of a book's text used as a retrieval unit.
type Fragment struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Index      int       `json:"index"`  // Position among the book's fragments
	Offset     int       `json:"offset"` // Rune offset into Book.Content
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// Validate returns an error if the fragment contains invalid fields.
func (f *Fragment) Validate() error {
	if f.Collection == "" {
		return Errorf(EINVALID, "fragment collection required")
	}
	if f.Content == "" {
		return Errorf(EINVALID, "fragment content required")
	}
	if len(f.Embedding) == 0 {
		return Errorf(EINVALID, "fragment embedding required")
	}
	return nil
}

// Splitter splits text into overlapping fragments.
type Splitter interface {
	// Split returns fragments that jointly cover all of text, in source order.
	// Only Index, Offset and Content are set on the returned fragments.
	Split(text string) ([]*Fragment, error)
}

// Embedder converts text into embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// Returns ESERVICE if the embedding backend fails.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// FragmentIndex stores embedded fragments and serves similarity search.
type FragmentIndex interface {
	// HasCollection reports whether the collection has been indexed.
	HasCollection(ctx context.Context, collection string) (bool, error)

	// AddFragments stores fragments in a collection, creating it if needed.
	// Either all fragments are stored or none are.
	AddFragments(ctx context.Context, collection string, fragments []*Fragment) error

	// Search returns up to k fragments of the collection most similar to the
	// query vector, ordered by descending similarity.
	// Returns ENOTFOUND if the collection does not exist.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// DeleteCollection removes a collection and all of its fragments.
	// Returns ENOTFOUND if the collection does not exist.
	DeleteCollection(ctx context.Context, collection string) error
}

// SearchResult represents a search match.
type SearchResult struct {
	Fragment *Fragment `json:"fragment"`
	Score    float32   `json:"score"`
}

// Retriever finds the fragments most relevant to a question.
type Retriever interface {
	// Retrieve returns up to k fragments ordered by descending relevance.
	Retrieve(ctx context.Context, question string, k int) ([]SearchResult, error)
}
