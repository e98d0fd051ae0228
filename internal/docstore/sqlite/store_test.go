package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemlist/tandem/internal/docstore"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err, "Open")
	return s
}

func TestStore_RoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := openStore(t, dir)
	require.NoError(t, s.Insert(ctx, "lists", "l1", map[string]any{
		"title":      "Groceries",
		"owner":      "u1",
		"sharedWith": []string{"a@example.com"},
	}))
	require.NoError(t, s.Close())

	s = openStore(t, dir)
	defer func() { _ = s.Close() }()

	doc, err := s.Get(ctx, "lists", "l1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", doc.Data["title"])
	assert.Equal(t, []any{"a@example.com"}, doc.Data["sharedWith"])
}

func TestStore_InsertDuplicate(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "lists", "l1", map[string]any{"title": "a"}))
	err := s.Insert(ctx, "lists", "l1", map[string]any{"title": "b"})
	assert.ErrorIs(t, err, docstore.ErrExists)
}

func TestStore_PatchAndUnion(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "lists", "l1", map[string]any{"title": "a", "owner": "u1"}))

	require.NoError(t, s.Patch(ctx, "lists", "l1", map[string]any{"title": "b"}))
	require.NoError(t, s.Union(ctx, "lists", "l1", "sharedWith", "x@example.com"))
	require.NoError(t, s.Union(ctx, "lists", "l1", "sharedWith", "x@example.com"))

	doc, err := s.Get(ctx, "lists", "l1")
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Data["title"])
	assert.Equal(t, "u1", doc.Data["owner"], "patch leaves other fields")
	assert.Equal(t, []any{"x@example.com"}, doc.Data["sharedWith"], "union is idempotent")

	assert.ErrorIs(t, s.Patch(ctx, "lists", "missing", map[string]any{"title": "x"}), docstore.ErrNotFound)
	assert.ErrorIs(t, s.Union(ctx, "lists", "missing", "sharedWith", "x"), docstore.ErrNotFound)
}

func TestStore_FindFiltersClientSide(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "tasks", "t1", map[string]any{"listId": "l1"}))
	require.NoError(t, s.Insert(ctx, "tasks", "t2", map[string]any{"listId": "l2"}))

	docs, err := s.Find(ctx, "tasks", docstore.Where(docstore.Eq("listId", "l1")))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "t1", docs[0].ID)
}

func TestStore_WatchSeesLocalWrites(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	sub, err := s.Watch(ctx, "tasks", docstore.All())
	require.NoError(t, err)
	defer sub.Cancel()

	select {
	case docs := <-sub.C():
		assert.Empty(t, docs)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, s.Insert(ctx, "tasks", "t1", map[string]any{"title": "a"}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case docs, ok := <-sub.C():
			require.True(t, ok)
			if len(docs) == 1 {
				assert.Equal(t, "t1", docs[0].ID)
				return
			}
		case <-deadline:
			t.Fatal("write never reached subscriber")
		}
	}
}
