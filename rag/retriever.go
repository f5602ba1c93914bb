package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/booktalk"
)

// Ensure Retriever implements booktalk.Retriever.
var _ booktalk.Retriever = (*Retriever)(nil)

// Retriever embeds a question and searches one collection of the index.
type Retriever struct {
	Embedder   booktalk.Embedder
	Index      booktalk.FragmentIndex
	Collection string
}

// Retrieve returns up to k fragments, most similar first.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]booktalk.SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, booktalk.Errorf(booktalk.EINVALID, "question required")
	}
	if k <= 0 {
		return nil, booktalk.Errorf(booktalk.EINVALID, "number of fragments must be positive, got %d", k)
	}

	vectors, err := r.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, booktalk.Errorf(booktalk.ESERVICE, "embedder returned %d vectors for 1 text", len(vectors))
	}

	return r.Index.Search(ctx, r.Collection, vectors[0], k)
}
