package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/booktalk"
	"github.com/fwojciec/booktalk/rag"
	"github.com/fwojciec/booktalk/split"
	bookslog "github.com/fwojciec/booktalk/slog"
	"github.com/fwojciec/booktalk/tui"
)

// Prompt is printed before each question.
const Prompt = "Type your question (or q to quit): "

// Run extracts and indexes the book, then answers questions until the user quits.
func (c *CLI) Run(deps *Dependencies) error {
	book, err := deps.Extractor.ExtractFile(deps.Ctx, c.BookPath)
	if err != nil {
		return err
	}

	key := rag.CollectionKey(c.Collection, book.Fingerprint, deps.EmbedModel, c.ChunkSize, c.ChunkOverlap)

	// Reindex mode: delete the existing collection first
	if c.Reindex {
		exists, err := deps.Index.HasCollection(deps.Ctx, key)
		if err != nil {
			return err
		}
		if exists {
			if err := deps.Index.DeleteCollection(deps.Ctx, key); err != nil {
				return err
			}
			deps.Logger.Info("deleted stored index", "collection", key)
		}
	}

	indexer := &rag.Indexer{
		Splitter:    &split.Splitter{Size: c.ChunkSize, Overlap: c.ChunkOverlap},
		Embedder:    deps.Embedder,
		Index:       deps.Index,
		BatchSize:   c.BatchSize,
		Concurrency: c.Workers,
		RPS:         c.RPS,
		RetryDelays: rag.DefaultRetryDelays(),
		OnRetry: func(attempt int, err error) {
			deps.Logger.Warn("retrying embedding", "attempt", attempt, "error", err)
		},
	}
	result, err := indexer.IndexBook(deps.Ctx, book, key, func(e rag.ProgressEvent) {
		if e.Type == rag.ProgressBatchEmbedded {
			deps.Logger.Debug("indexing", "batch", e.Completed, "of", e.Total)
		}
	})
	if err != nil {
		return err
	}
	if result.Skipped {
		deps.Logger.Info("book already indexed", "collection", key)
	} else {
		deps.Logger.Info("book indexed", "collection", key, "fragments", result.Fragments)
	}

	retriever := &rag.Retriever{Embedder: deps.Embedder, Index: deps.Index, Collection: key}
	asker := &rag.Asker{
		Retriever:    bookslog.NewLoggingRetriever(retriever, deps.Logger),
		Generator:    deps.Generator,
		Book:         book,
		NumFragments: c.NumFragments,
	}

	if c.TUI {
		return tui.Run(deps.Ctx, asker, book)
	}
	return Chat(deps.Ctx, asker, deps.Stdin, deps.Stdout)
}

// Chat reads one question per line from r and writes each answer to w,
// surrounded by blank lines. The input "q" or the end of input stops the loop.
// Empty lines are ignored. Errors from the asker end the loop.
func Chat(ctx context.Context, asker booktalk.Asker, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(w, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		question := strings.TrimRight(scanner.Text(), "\r")
		if question == "q" {
			return nil
		}
		if strings.TrimSpace(question) == "" {
			continue
		}

		answer, err := asker.Ask(ctx, question)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n\n", answer)
	}
}
