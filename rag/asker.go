package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/booktalk"
)

// DefaultNumFragments is the number of fragments retrieved per question.
const DefaultNumFragments = 10

// Ensure Asker implements booktalk.Asker.
var _ booktalk.Asker = (*Asker)(nil)

// Asker answers questions about a book by retrieving relevant fragments and
// passing them to a Generator in a fixed prompt.
type Asker struct {
	Retriever    booktalk.Retriever
	Generator    booktalk.Generator
	Book         *booktalk.Book
	NumFragments int
}

// Ask returns the generated answer verbatim.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", booktalk.Errorf(booktalk.EINVALID, "question required")
	}

	k := a.NumFragments
	if k <= 0 {
		k = DefaultNumFragments
	}

	results, err := a.Retriever.Retrieve(ctx, question, k)
	if err != nil {
		return "", err
	}

	return a.Generator.Generate(ctx, booktalk.FormatPrompt(a.Book, results, question))
}
