package tandem

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tandemlist/tandem/internal/core/activity"
	"github.com/tandemlist/tandem/internal/core/identity"
	"github.com/tandemlist/tandem/internal/docstore"
	"github.com/tandemlist/tandem/internal/docstore/memstore"
)

var (
	alice = identity.Session{User: identity.User{ID: "u-alice", Name: "Alice", Email: "alice@example.com"}}
	bob   = identity.Session{User: identity.User{ID: "u-bob", Name: "Bob", Email: "bob@example.com"}}
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store := memstore.New(zerolog.Nop())
	app := NewApp(store, zerolog.Nop())
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// activityTexts returns the display text of every entry for a list,
// newest first.
func activityTexts(t *testing.T, app *App, listID string) []string {
	t.Helper()
	acts, err := app.Activity.List(context.Background(), listID)
	require.NoError(t, err)
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.Text()
	}
	return out
}

func lastActivity(t *testing.T, app *App, listID string) activity.Activity {
	t.Helper()
	acts, err := app.Activity.List(context.Background(), listID)
	require.NoError(t, err)
	require.NotEmpty(t, acts, "expected at least one activity entry")
	return acts[0]
}

// failingStore wraps a real store and fails inserts into one collection.
// Used to exercise the gap between a mutation and its history entry.
type failingStore struct {
	docstore.Store
	failCollection string
}

var errInjected = errors.New("injected store failure")

func (f *failingStore) Insert(ctx context.Context, collection, id string, data map[string]any) error {
	if collection == f.failCollection {
		return errInjected
	}
	return f.Store.Insert(ctx, collection, id, data)
}
