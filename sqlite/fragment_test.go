package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/booktalk"
	"github.com/fwojciec/booktalk/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragments builds fragments with orthogonal one-hot embeddings, one
// dimension per fragment.
func fragments(contents ...string) []*booktalk.Fragment {
	out := make([]*booktalk.Fragment, len(contents))
	for i, c := range contents {
		emb := make([]float32, len(contents))
		emb[i] = 1
		out[i] = &booktalk.Fragment{Index: i, Offset: i * 10, Content: c, Embedding: emb}
	}
	return out
}

func TestFragmentIndex_AddFragments(t *testing.T) {
	t.Parallel()

	t.Run("assigns IDs and creates collection", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		frags := fragments("a", "b")

		require.NoError(t, idx.AddFragments(ctx, "book", frags))

		for _, f := range frags {
			assert.NotEmpty(t, f.ID)
			assert.Equal(t, "book", f.Collection)
		}
		ok, err := idx.HasCollection(ctx, "book")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown collection is absent", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))

		ok, err := idx.HasCollection(context.Background(), "book")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects invalid fragments without storing any", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		frags := fragments("a", "b")
		frags[1].Embedding = nil

		err := idx.AddFragments(ctx, "book", frags)

		assert.Equal(t, booktalk.EINVALID, booktalk.ErrorCode(err))
		ok, err := idx.HasCollection(ctx, "book")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rolls back on duplicate IDs", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		frags := fragments("a", "b")
		frags[0].ID = "same"
		frags[1].ID = "same"

		require.Error(t, idx.AddFragments(ctx, "book", frags))

		ok, err := idx.HasCollection(ctx, "book")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("requires collection name", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))

		err := idx.AddFragments(context.Background(), "", fragments("a"))

		assert.Equal(t, booktalk.EINVALID, booktalk.ErrorCode(err))
	})
}

func TestFragmentIndex_Search(t *testing.T) {
	t.Parallel()

	t.Run("orders by descending similarity and limits to k", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, idx.AddFragments(ctx, "book", fragments("a", "b", "c")))

		results, err := idx.Search(ctx, "book", []float32{0.1, 0.2, 0.9}, 2)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "c", results[0].Fragment.Content)
		assert.Equal(t, "b", results[1].Fragment.Content)
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.Equal(t, 2, results[0].Fragment.Index)
		assert.Equal(t, 20, results[0].Fragment.Offset)
		assert.Equal(t, []float32{0, 0, 1}, results[0].Fragment.Embedding)
	})

	t.Run("returns all fragments when k exceeds collection size", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, idx.AddFragments(ctx, "book", fragments("a", "b")))

		results, err := idx.Search(ctx, "book", []float32{1, 0}, 10)

		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("keeps collections apart", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, idx.AddFragments(ctx, "one", fragments("a", "b")))
		require.NoError(t, idx.AddFragments(ctx, "two", fragments("x", "y")))

		results, err := idx.Search(ctx, "two", []float32{1, 0}, 10)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "x", results[0].Fragment.Content)
		assert.Equal(t, "two", results[0].Fragment.Collection)
	})

	t.Run("missing collection", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))

		_, err := idx.Search(context.Background(), "book", []float32{1}, 1)

		assert.Equal(t, booktalk.ENOTFOUND, booktalk.ErrorCode(err))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, idx.AddFragments(ctx, "book", fragments("a", "b")))

		_, err := idx.Search(ctx, "book", []float32{1, 0, 0}, 1)

		assert.Equal(t, booktalk.EINVALID, booktalk.ErrorCode(err))
	})

	t.Run("non-positive k", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))

		_, err := idx.Search(context.Background(), "book", []float32{1}, 0)

		assert.Equal(t, booktalk.EINVALID, booktalk.ErrorCode(err))
	})
}

func TestFragmentIndex_DeleteCollection(t *testing.T) {
	t.Parallel()

	t.Run("removes collection and fragments", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		idx := sqlite.NewFragmentIndex(db)
		ctx := context.Background()
		require.NoError(t, idx.AddFragments(ctx, "book", fragments("a", "b")))

		require.NoError(t, idx.DeleteCollection(ctx, "book"))

		ok, err := idx.HasCollection(ctx, "book")
		require.NoError(t, err)
		assert.False(t, ok)
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fragments").Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("missing collection", func(t *testing.T) {
		t.Parallel()

		idx := sqlite.NewFragmentIndex(setupTestDB(t))

		err := idx.DeleteCollection(context.Background(), "book")

		assert.Equal(t, booktalk.ENOTFOUND, booktalk.ErrorCode(err))
	})
}
