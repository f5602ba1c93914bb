package sqlite

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/fwojciec/booktalk"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ booktalk.FragmentIndex = (*FragmentIndex)(nil)

// FragmentIndex implements booktalk.FragmentIndex using SQLite.
// Similarity search is an exhaustive cosine scan over the collection.
type FragmentIndex struct {
	db *DB
}

// NewFragmentIndex creates a new FragmentIndex.
func NewFragmentIndex(db *DB) *FragmentIndex {
	return &FragmentIndex{db: db}
}

// HasCollection reports whether the collection exists.
func (s *FragmentIndex) HasCollection(ctx context.Context, collection string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections WHERE name = ?", collection).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddFragments stores fragments in a single transaction. Fragments without an
// ID are assigned one, and every fragment's Collection is set.
func (s *FragmentIndex) AddFragments(ctx context.Context, collection string, fragments []*booktalk.Fragment) error {
	if collection == "" {
		return booktalk.Errorf(booktalk.EINVALID, "collection required")
	}
	for _, f := range fragments {
		f.Collection = collection
		if err := f.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO collections (name, created_at) VALUES (?, ?)",
		collection, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fragments (id, collection, position, rune_offset, content, dims, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range fragments {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx, f.ID, collection, f.Index, f.Offset, f.Content,
			len(f.Embedding), encodeVector(f.Embedding)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search returns the k fragments of the collection with the highest cosine
// similarity to query, most similar first. Ties keep source order.
func (s *FragmentIndex) Search(ctx context.Context, collection string, query []float32, k int) ([]booktalk.SearchResult, error) {
	if k <= 0 {
		return nil, booktalk.Errorf(booktalk.EINVALID, "number of results must be positive, got %d", k)
	}
	if len(query) == 0 {
		return nil, booktalk.Errorf(booktalk.EINVALID, "query embedding required")
	}

	ok, err := s.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booktalk.Errorf(booktalk.ENOTFOUND, "collection %q not found", collection)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position, rune_offset, content, dims, embedding
		FROM fragments
		WHERE collection = ?
		ORDER BY position ASC
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []booktalk.SearchResult
	for rows.Next() {
		f := &booktalk.Fragment{Collection: collection}
		var dims int
		var blob []byte
		if err := rows.Scan(&f.ID, &f.Index, &f.Offset, &f.Content, &dims, &blob); err != nil {
			return nil, err
		}
		if dims != len(query) {
			return nil, booktalk.Errorf(booktalk.EINVALID,
				"query has %d dimensions, collection %q has %d", len(query), collection, dims)
		}
		if f.Embedding, err = decodeVector(blob); err != nil {
			return nil, err
		}
		results = append(results, booktalk.SearchResult{Fragment: f, Score: cosine(query, f.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b booktalk.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteCollection removes a collection and, through the foreign key, its fragments.
func (s *FragmentIndex) DeleteCollection(ctx context.Context, collection string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return booktalk.Errorf(booktalk.ENOTFOUND, "collection %q not found", collection)
	}
	return nil
}
