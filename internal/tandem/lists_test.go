package tandem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemlist/tandem/internal/core/activity"
	"github.com/tandemlist/tandem/internal/core/list"
)

func TestListService_Create(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	l, err := app.Lists.Create(ctx, "Groceries", alice)
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "Groceries", l.Title)
	assert.Equal(t, alice.User.ID, l.OwnerID)
	assert.Empty(t, l.SharedWith)

	got, err := app.Lists.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Title, got.Title)

	assert.Equal(t, []string{"Alice created the list"}, activityTexts(t, app, l.ID))
}

func TestListService_CreateBlankTitle(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Lists.Create(context.Background(), "   ", alice)
	require.Error(t, err)
}

func TestListService_CreateKeepsTitleVerbatim(t *testing.T) {
	app := newTestApp(t)

	l, err := app.Lists.Create(context.Background(), "  padded  ", alice)
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", l.Title)
}

func TestListService_CreateNamelessActorFallsBack(t *testing.T) {
	app := newTestApp(t)
	anon := bob
	anon.User.Name = ""

	l, err := app.Lists.Create(context.Background(), "Chores", anon)
	require.NoError(t, err)

	assert.Equal(t, []string{"Someone created the list"}, activityTexts(t, app, l.ID))
}

func TestListService_Rename(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	l, err := app.Lists.Create(ctx, "Groceries", alice)
	require.NoError(t, err)

	require.NoError(t, app.Lists.Rename(ctx, l.ID, "  Weekly shop  ", alice))

	got, err := app.Lists.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", got.Title, "rename trims whitespace")

	last := lastActivity(t, app, l.ID)
	assert.Equal(t, activity.ActionRenamed, last.Action)
	assert.Equal(t, `Alice renamed the list to "Weekly shop"`, last.Details)
}

func TestListService_RenameBlankRejected(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	l, err := app.Lists.Create(ctx, "Groceries", alice)
	require.NoError(t, err)

	require.Error(t, app.Lists.Rename(ctx, l.ID, "   ", alice))

	got, err := app.Lists.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title, "no mutation on rejected rename")
	assert.Len(t, activityTexts(t, app, l.ID), 1, "no rename entry recorded")
}

func TestListService_RenameMissingList(t *testing.T) {
	app := newTestApp(t)
	err := app.Lists.Rename(context.Background(), "missing", "New", alice)
	assert.ErrorIs(t, err, list.ErrNotFound)
}

func TestListService_DeleteRequiresOwner(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	l, err := app.Lists.Create(ctx, "Groceries", alice)
	require.NoError(t, err)

	err = app.Lists.Delete(ctx, l, bob)
	assert.ErrorIs(t, err, list.ErrNotOwner)

	_, err = app.Lists.Get(ctx, l.ID)
	assert.NoError(t, err, "list untouched after rejected delete")
}

func TestListService_DeleteCascades(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	l, err := app.Lists.Create(ctx, "Groceries", alice)
	require.NoError(t, err)
	_, err = app.Tasks.Create(ctx, l.ID, "Milk", "", alice)
	require.NoError(t, err)
	_, err = app.Tasks.Create(ctx, l.ID, "Eggs", "", alice)
	require.NoError(t, err)

	// A second list must survive its sibling's cascade.
	other, err := app.Lists.Create(ctx, "Chores", alice)
	require.NoError(t, err)

	require.NoError(t, app.Lists.Delete(ctx, l, alice))

	_, err = app.Lists.Get(ctx, l.ID)
	assert.ErrorIs(t, err, list.ErrNotFound)

	view, err := app.Tasks.Watch(ctx, l.ID)
	require.NoError(t, err)
	defer view.Cancel()
	assert.Empty(t, <-view.C, "tasks removed by cascade")

	assert.Empty(t, activityTexts(t, app, l.ID), "history removed by cascade")

	_, err = app.Lists.Get(ctx, other.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, activityTexts(t, app, other.ID))
}

func TestListService_WatchOwnedAndShared(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	mine, err := app.Lists.Create(ctx, "Mine", alice)
	require.NoError(t, err)
	theirs, err := app.Lists.Create(ctx, "Theirs", bob)
	require.NoError(t, err)
	_, err = app.Lists.Create(ctx, "Hidden", bob)
	require.NoError(t, err)

	require.NoError(t, app.Collab.Share(ctx, theirs, alice.User.Email, bob))

	view, err := app.Lists.Watch(ctx, alice)
	require.NoError(t, err)
	defer view.Cancel()

	lists := <-view.C
	require.Len(t, lists, 2)

	ids := map[string]bool{}
	for _, l := range lists {
		ids[l.ID] = true
	}
	assert.True(t, ids[mine.ID])
	assert.True(t, ids[theirs.ID])
}

func TestSelection_Apply(t *testing.T) {
	now := time.Now()
	lists := []list.List{
		{ID: "a", CreatedAt: now},
		{ID: "b", CreatedAt: now.Add(-time.Hour)},
	}

	t.Run("keeps a still-visible selection", func(t *testing.T) {
		sel := Selection{ID: "b"}.Apply(lists)
		assert.Equal(t, "b", sel.ID)
	})

	t.Run("falls back to first when selection disappears", func(t *testing.T) {
		sel := Selection{ID: "gone"}.Apply(lists)
		assert.Equal(t, "a", sel.ID)
	})

	t.Run("empty snapshot clears the selection", func(t *testing.T) {
		sel := Selection{ID: "a"}.Apply(nil)
		assert.Equal(t, "", sel.ID)
	})

	t.Run("no selection picks the first list", func(t *testing.T) {
		sel := Selection{}.Apply(lists)
		assert.Equal(t, "a", sel.ID)
	})
}
