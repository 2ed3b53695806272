package transcript

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

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "heybuddy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	queue, err := outbox.New(st.DB(), nil)
	require.NoError(t, err)

	monitor := connectivity.NewMonitor(false)
	gw := gateway.New(st, queue, monitor, syncer.LocalTransport{}, 0, nil)
	return NewService(gw, st)
}

func TestCreateRequiresText(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{Text: " "})
	assert.ErrorIs(t, err, ErrTextRequired)
}

func TestCorrectTextKeepsMetadata(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{
		Text:            "remind me to by milk",
		Language:        "en",
		DurationSeconds: 3.4,
		Source:          "microphone",
	})
	require.NoError(t, err)

	fixed, err := svc.CorrectText(ctx, created.ID, "remind me to buy milk")
	require.NoError(t, err)
	assert.Equal(t, "remind me to buy milk", fixed.Text)
	assert.Equal(t, "en", fixed.Language)
	assert.Equal(t, 3.4, fixed.DurationSeconds)
	assert.Equal(t, "microphone", fixed.Source)
}

func TestCorrectTextMissing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CorrectText(context.Background(), "missing", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Text: "shopping list", Language: "en", Source: "microphone"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Text: "einkaufsliste", Language: "de", Source: "upload"})
	require.NoError(t, err)

	en, err := svc.List(ctx, Filter{Language: "EN"})
	require.NoError(t, err)
	require.Len(t, en, 1)
	assert.Equal(t, "shopping list", en[0].Text)

	uploads, err := svc.List(ctx, Filter{Source: "upload"})
	require.NoError(t, err)
	require.Len(t, uploads, 1)

	found, err := svc.List(ctx, Filter{Search: "LISTE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "einkaufsliste", found[0].Text)
}
