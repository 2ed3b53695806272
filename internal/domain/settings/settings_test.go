package settings

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heybuddy/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "heybuddy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return NewService(s)
}

func TestSetAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, found, err := svc.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.Set(ctx, "theme", "dark"))
	require.NoError(t, svc.Set(ctx, "theme", "light"), "set is an upsert")

	value, found, err := svc.Get(ctx, "theme")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "light", value)
}

func TestLastSyncRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.LastSync(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "no sync has happened yet")

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, svc.SetLastSync(ctx, now))

	got, err = svc.LastSync(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(now))
}
