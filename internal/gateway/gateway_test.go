package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heybuddy/internal/connectivity"
	"heybuddy/internal/domain/settings"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
	syncer "heybuddy/internal/sync"
)

type stubTransport struct {
	mu      gosync.Mutex
	sent    int
	sendErr error
}

func (t *stubTransport) Send(context.Context, outbox.Operation, string, json.RawMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	t.sent++
	return nil
}

func (t *stubTransport) Pull(context.Context, string, string) ([]store.Record, error) {
	return nil, nil
}

func (t *stubTransport) Ping(context.Context) error { return nil }

type fixture struct {
	store     *store.Store
	queue     *outbox.Queue
	monitor   *connectivity.Monitor
	transport *stubTransport
	gateway   *Gateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "heybuddy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	queue, err := outbox.New(st.DB(), nil)
	require.NoError(t, err)

	f := &fixture{
		store:     st,
		queue:     queue,
		monitor:   connectivity.NewMonitor(false),
		transport: &stubTransport{},
	}
	f.gateway = New(st, queue, f.monitor, f.transport, 0, nil)
	return f
}

func TestOfflineCreateIsDurableAndQueued(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.gateway.CreateWithSync(ctx, "notes", store.Record{"title": "A", "content": "B"})
	require.NoError(t, err)

	// Retrievable immediately.
	got, found, err := f.store.GetByID(ctx, "notes", rec.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A", got["title"])

	// Exactly one CREATE entry with the matching record id.
	entries, err := f.queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, outbox.OpCreate, entries[0].Operation)
	assert.Equal(t, "notes", entries[0].Table)
	assert.Equal(t, rec.ID(), entries[0].RecordID())
}

func TestOnlineCreateSkipsQueue(t *testing.T) {
	f := newFixture(t)
	f.monitor.SetOnline(true)
	ctx := context.Background()

	rec, err := f.gateway.CreateWithSync(ctx, "notes", store.Record{"title": "A"})
	require.NoError(t, err)

	n, err := f.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, f.transport.sent)

	got, _, err := f.store.GetByID(ctx, "notes", rec.ID())
	require.NoError(t, err)
	assert.NotNil(t, got[store.FieldLastSync], "immediate ack stamps lastSync")
}

func TestOnlineTransmissionFailureFallsBackToQueue(t *testing.T) {
	f := newFixture(t)
	f.monitor.SetOnline(true)
	f.transport.sendErr = errors.New("503")
	ctx := context.Background()

	_, err := f.gateway.CreateWithSync(ctx, "notes", store.Record{"title": "A"})
	require.NoError(t, err, "transmission failure never reaches the caller")

	n, err := f.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateWithSyncMissingRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.gateway.UpdateWithSync(context.Background(), "tasks", "ghost", store.Record{"title": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, _ := f.queue.Len(context.Background())
	assert.Equal(t, 0, n, "a failed local write queues nothing")
}

func TestDeleteWithSyncQueuesDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.gateway.CreateWithSync(ctx, "tasks", store.Record{"title": "done soon"})
	require.NoError(t, err)

	require.NoError(t, f.gateway.DeleteWithSync(ctx, "tasks", rec.ID()))

	_, found, err := f.store.GetByID(ctx, "tasks", rec.ID())
	require.NoError(t, err)
	assert.False(t, found)

	entries, err := f.queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, outbox.OpCreate, entries[0].Operation)
	assert.Equal(t, outbox.OpDelete, entries[1].Operation)
	assert.Equal(t, rec.ID(), entries[1].RecordID())
}

// The end-to-end offline→online scenario: create while offline, reconnect,
// drain, verify the note is synced and the queue empty.
func TestOfflineCreateThenReconnectScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.gateway.CreateWithSync(ctx, "notes", store.Record{"title": "A", "content": "B"})
	require.NoError(t, err)

	count, err := f.store.Count(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := f.queue.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	coord := syncer.NewCoordinator(f.store, f.queue, f.monitor, f.transport,
		settings.NewService(f.store), syncer.Config{}, nil)
	coord.Start(ctx)
	defer coord.Stop()

	f.monitor.SetOnline(true)

	n, err = f.queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, found, err := f.store.GetByID(ctx, "notes", rec.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, got[store.FieldLastSync])
}
