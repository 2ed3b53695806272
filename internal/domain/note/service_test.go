package note

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heybuddy/internal/connectivity"
	"heybuddy/internal/gateway"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
	syncer "heybuddy/internal/sync"
)

func newTestService(t *testing.T) (*Service, *outbox.Queue) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "heybuddy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	queue, err := outbox.New(st.DB(), nil)
	require.NoError(t, err)

	monitor := connectivity.NewMonitor(false)
	gw := gateway.New(st, queue, monitor, syncer.LocalTransport{}, 0, nil)
	return NewService(gw, st), queue
}

func ptr[T any](v T) *T { return &v }

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{Title: "   "})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateAndGet(t *testing.T) {
	svc, queue := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{
		Title:      "groceries",
		Content:    "milk, eggs",
		Tags:       []string{"home"},
		IsFavorite: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Synced())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, []string{"home"}, got.Tags)
	assert.True(t, got.IsFavorite)
	assert.False(t, got.IsArchived)

	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{Title: "draft", Content: "v1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateParams{
		Content:    ptr("v2"),
		IsArchived: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Title)
	assert.Equal(t, "v2", updated.Content)
	assert.True(t, updated.IsArchived)
}

func TestUpdateMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing", UpdateParams{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Title: "shopping list", Tags: []string{"home"}})
	require.NoError(t, err)
	fav, err := svc.Create(ctx, CreateParams{Title: "ideas", IsFavorite: true})
	require.NoError(t, err)
	archived, err := svc.Create(ctx, CreateParams{Title: "old plan"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, archived.ID, UpdateParams{IsArchived: ptr(true)})
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := svc.List(ctx, Filter{Archived: ptr(false)})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	favs, err := svc.List(ctx, Filter{Favorite: ptr(true)})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, fav.ID, favs[0].ID)

	tagged, err := svc.List(ctx, Filter{Tag: "HOME"})
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	found, err := svc.List(ctx, Filter{Search: "plan"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, archived.ID, found[0].ID)
}
