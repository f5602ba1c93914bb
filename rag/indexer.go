// Package rag wires extraction, indexing, retrieval and generation into
// question answering over a book.
package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/booktalk"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Indexer.
const (
	DefaultBatchSize   = 32
	DefaultConcurrency = 4
)

// Indexer splits a book into fragments, embeds them and stores them in a
// FragmentIndex.
type Indexer struct {
	Splitter booktalk.Splitter
	Embedder booktalk.Embedder
	Index    booktalk.FragmentIndex

	// BatchSize is the number of fragments sent per embedding request.
	BatchSize int

	// Concurrency bounds the embedding requests in flight. 1 embeds batches
	// one after another.
	Concurrency int

	// RPS limits embedding requests per second. Zero means unlimited.
	RPS float64

	// RetryDelays are the waits before retrying a batch that failed with
	// ESERVICE. Nil disables retries.
	RetryDelays []time.Duration

	// OnRetry, if set, is called before each retry.
	OnRetry RetryFunc
}

// IndexResult holds the outcome of an indexing operation.
type IndexResult struct {
	Fragments int
	Batches   int
	Skipped   bool // Collection already existed
}

// ProgressEvent reports progress during indexing.
type ProgressEvent struct {
	Type      ProgressType
	Completed int // Batches embedded so far
	Total     int // Batches to embed
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressBatchEmbedded
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// IndexBook stores the fragments of book in collection. A collection that
// already exists is left untouched, so each distinct input is embedded at
// most once. Either all fragments are stored or none are.
func (x *Indexer) IndexBook(ctx context.Context, book *booktalk.Book, collection string, progress ProgressFunc) (*IndexResult, error) {
	exists, err := x.Index.HasCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return &IndexResult{Skipped: true}, nil
	}

	fragments, err := x.Splitter.Split(book.Content)
	if err != nil {
		return nil, err
	}

	batches := x.batches(fragments)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: len(batches)})
	}

	if err := x.embed(ctx, batches, progress); err != nil {
		return nil, err
	}

	// An empty book still gets its collection so that searches find nothing
	// instead of failing.
	if err := x.Index.AddFragments(ctx, collection, fragments); err != nil {
		return nil, fmt.Errorf("store fragments: %w", err)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(batches), Total: len(batches)})
	}

	return &IndexResult{Fragments: len(fragments), Batches: len(batches)}, nil
}

// embed fills in the embedding of every fragment. Each batch writes only its
// own fragments, so source order is kept regardless of completion order.
func (x *Indexer) embed(ctx context.Context, batches [][]*booktalk.Fragment, progress ProgressFunc) error {
	concurrency := x.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var limiter *rate.Limiter
	if x.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(x.RPS), 1)
	}

	var mu sync.Mutex // serializes progress callbacks
	completed := 0
	total := len(batches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, batch := range batches {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}

			texts := make([]string, len(batch))
			for i, f := range batch {
				texts[i] = f.Content
			}

			vectors, err := embedWithRetry(gctx, x.Embedder, texts, x.RetryDelays, x.OnRetry)
			if err != nil {
				return fmt.Errorf("embed fragments %d-%d: %w", batch[0].Index, batch[len(batch)-1].Index, err)
			}
			if len(vectors) != len(batch) {
				return booktalk.Errorf(booktalk.ESERVICE, "embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			for i, f := range batch {
				f.Embedding = vectors[i]
			}

			mu.Lock()
			completed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressBatchEmbedded, Completed: completed, Total: total})
			}
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

func (x *Indexer) batches(fragments []*booktalk.Fragment) [][]*booktalk.Fragment {
	size := x.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	var out [][]*booktalk.Fragment
	for start := 0; start < len(fragments); start += size {
		out = append(out, fragments[start:min(start+size, len(fragments))])
	}
	return out
}

// CollectionKey derives the collection name under which a book is indexed.
// Everything that shapes the stored fragments is part of the key, so the same
// EPUB split and embedded the same way always maps to the same collection.
func CollectionKey(collection, fingerprint, embedModel string, size, overlap int) string {
	if collection == "" {
		collection = booktalk.DefaultCollection
	}
	return fmt.Sprintf("%s:%s:%s:%d-%d", collection, fingerprint, embedModel, size, overlap)
}
