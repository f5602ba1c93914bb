package mock

import (
	"context"

	"github.com/fwojciec/booktalk"
)

var _ booktalk.Splitter = (*Splitter)(nil)

// Splitter is a mock implementation of booktalk.Splitter.
type Splitter struct {
	SplitFn func(text string) ([]*booktalk.Fragment, error)
}

func (s *Splitter) Split(text string) ([]*booktalk.Fragment, error) {
	return s.SplitFn(text)
}

var _ booktalk.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of booktalk.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

var _ booktalk.FragmentIndex = (*FragmentIndex)(nil)

// FragmentIndex is a mock implementation of booktalk.FragmentIndex.
type FragmentIndex struct {
	HasCollectionFn    func(ctx context.Context, collection string) (bool, error)
	AddFragmentsFn     func(ctx context.Context, collection string, fragments []*booktalk.Fragment) error
	SearchFn           func(ctx context.Context, collection string, query []float32, k int) ([]booktalk.SearchResult, error)
	DeleteCollectionFn func(ctx context.Context, collection string) error
}

func (s *FragmentIndex) HasCollection(ctx context.Context, collection string) (bool, error) {
	return s.HasCollectionFn(ctx, collection)
}

func (s *FragmentIndex) AddFragments(ctx context.Context, collection string, fragments []*booktalk.Fragment) error {
	return s.AddFragmentsFn(ctx, collection, fragments)
}

func (s *FragmentIndex) Search(ctx context.Context, collection string, query []float32, k int) ([]booktalk.SearchResult, error) {
	return s.SearchFn(ctx, collection, query, k)
}

func (s *FragmentIndex) DeleteCollection(ctx context.Context, collection string) error {
	return s.DeleteCollectionFn(ctx, collection)
}

var _ booktalk.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of booktalk.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, question string, k int) ([]booktalk.SearchResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]booktalk.SearchResult, error) {
	return r.RetrieveFn(ctx, question, k)
}
