package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heybuddy/internal/connectivity"
	"heybuddy/internal/domain/settings"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
)

// stubTransport records every Send in call order and can be told to fail,
// block, or serve canned pulls.
type stubTransport struct {
	mu      gosync.Mutex
	calls   []string
	sendErr error
	pulls   map[string][]store.Record
	gate    chan struct{}
}

func (t *stubTransport) Send(_ context.Context, op outbox.Operation, table string, data json.RawMessage) error {
	if t.gate != nil {
		<-t.gate
	}

	var payload struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(data, &payload)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, fmt.Sprintf("%s %s/%s", op, table, payload.ID))
	return t.sendErr
}

func (t *stubTransport) Pull(_ context.Context, table, _ string) ([]store.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pulls[table], nil
}

func (t *stubTransport) Ping(context.Context) error { return nil }

func (t *stubTransport) callLog() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

type fixture struct {
	store     *store.Store
	queue     *outbox.Queue
	monitor   *connectivity.Monitor
	settings  *settings.Service
	transport *stubTransport
	coord     *Coordinator
}

func newFixture(t *testing.T, cfg Config) *fixture {
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
		settings:  settings.NewService(st),
		transport: &stubTransport{},
	}
	f.coord = NewCoordinator(st, queue, f.monitor, f.transport, f.settings, cfg, nil)
	return f
}

func (f *fixture) enqueue(t *testing.T, op outbox.Operation, table, recordID string) {
	t.Helper()
	data, _ := json.Marshal(map[string]string{"id": recordID})
	_, err := f.queue.Enqueue(context.Background(), op, table, data)
	require.NoError(t, err)
}

func (f *fixture) pending(t *testing.T) int {
	t.Helper()
	n, err := f.queue.Len(context.Background())
	require.NoError(t, err)
	return n
}

func TestDrainAllSuccessEmptiesQueue(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.enqueue(t, outbox.OpCreate, "notes", fmt.Sprintf("n%d", i))
	}

	result, err := f.coord.Drain(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Attempted)
	assert.Equal(t, 5, result.Sent)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Dropped)
	assert.Equal(t, 0, f.pending(t))

	entries, err := f.queue.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDrainReplaysInEnqueueOrder(t *testing.T) {
	f := newFixture(t, Config{})

	f.enqueue(t, outbox.OpCreate, "notes", "1")
	f.enqueue(t, outbox.OpUpdate, "notes", "1")
	f.enqueue(t, outbox.OpDelete, "notes", "1")

	_, err := f.coord.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CREATE notes/1",
		"UPDATE notes/1",
		"DELETE notes/1",
	}, f.transport.callLog())
}

func TestRetryCeilingDropsToDeadLetter(t *testing.T) {
	f := newFixture(t, Config{RetryLimit: 3})
	f.transport.sendErr = errors.New("backend down")
	ctx := context.Background()

	f.enqueue(t, outbox.OpCreate, "tasks", "t1")

	// Two failing drains keep the entry, the third drops it.
	for drain := 1; drain <= 2; drain++ {
		result, err := f.coord.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed, "drain %d", drain)
		assert.Equal(t, 1, f.pending(t), "drain %d", drain)
	}

	result, err := f.coord.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Dropped)
	assert.Zero(t, result.Sent, "a dropped entry is never counted as sent")
	assert.Equal(t, 0, f.pending(t))

	letters, err := f.queue.ListDeadLetters(ctx)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, 3, letters[0].RetryCount)
	assert.Contains(t, letters[0].Reason, "backend down")
}

func TestDrainPartialFailureIsolation(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	f.enqueue(t, outbox.OpCreate, "notes", "ok1")
	f.enqueue(t, outbox.OpCreate, "notes", "ok2")

	// Fail only the middle entry by flipping the stub around it is fiddly;
	// instead fail everything once and verify every entry was attempted.
	f.transport.sendErr = errors.New("flaky")
	result, err := f.coord.Drain(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempted, "one failure does not abort the batch")
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)

	f.transport.sendErr = nil
	result, err = f.coord.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, f.pending(t))
}

func TestDrainSingleFlight(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	f.enqueue(t, outbox.OpCreate, "notes", "first")

	f.transport.gate = make(chan struct{})

	var wg gosync.WaitGroup
	var firstResult *DrainResult
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstResult, _ = f.coord.Drain(ctx)
	}()

	// Wait until the drain is inside the transport call.
	require.Eventually(t, f.coord.Draining, time.Second, time.Millisecond)

	_, err := f.coord.Drain(ctx)
	assert.ErrorIs(t, err, ErrDrainInProgress, "concurrent trigger is dropped, not queued")

	// An entry enqueued mid-drain belongs to the next pass.
	f.enqueue(t, outbox.OpCreate, "notes", "second")

	close(f.transport.gate)
	wg.Wait()

	require.NotNil(t, firstResult)
	assert.Equal(t, 1, firstResult.Attempted)
	assert.Equal(t, 1, f.pending(t))

	f.transport.gate = nil
	next, err := f.coord.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Attempted)
	assert.Equal(t, []string{"CREATE notes/first", "CREATE notes/second"}, f.transport.callLog())
}

func TestReconnectTriggersDrain(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	f.coord.Start(ctx)
	defer f.coord.Stop()

	f.enqueue(t, outbox.OpCreate, "notes", "offline-note")
	require.Equal(t, 1, f.pending(t))

	f.monitor.SetOnline(true)

	assert.Equal(t, 0, f.pending(t), "going online drains the queue")
	assert.Equal(t, []string{"CREATE notes/offline-note"}, f.transport.callLog())

	// Going offline and back online again with an empty queue is harmless.
	f.monitor.SetOnline(false)
	f.monitor.SetOnline(true)
	assert.Equal(t, 0, f.pending(t))
}

func TestDrainMarksRecordSynced(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	rec, err := f.store.Create(ctx, "notes", store.Record{"title": "A", "content": "B"})
	require.NoError(t, err)

	data, _ := json.Marshal(rec)
	_, err = f.queue.Enqueue(ctx, outbox.OpCreate, "notes", data)
	require.NoError(t, err)

	_, err = f.coord.Drain(ctx)
	require.NoError(t, err)

	got, found, err := f.store.GetByID(ctx, "notes", rec.ID())
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, got[store.FieldLastSync], "successful transmission stamps lastSync")
}

func TestFullSyncPullsReplacesAndDrains(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	// Unsynced local state that the pull will overwrite.
	_, err := f.store.Create(ctx, "notes", store.Record{"id": "local-only", "title": "mine"})
	require.NoError(t, err)

	f.transport.pulls = map[string][]store.Record{
		"notes": {
			{"id": "r1", "title": "server note"},
		},
		"tasks": {
			{"id": "r2", "title": "server task"},
		},
	}

	f.enqueue(t, outbox.OpCreate, "schedules", "s1")

	result, err := f.coord.FullSync(ctx, "owner-7")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pulled)
	require.NotNil(t, result.Drain)
	assert.Equal(t, 1, result.Drain.Sent)
	assert.Equal(t, 0, f.pending(t))

	_, found, err := f.store.GetByID(ctx, "notes", "local-only")
	require.NoError(t, err)
	assert.False(t, found, "pull-and-replace wins over unsynced local data")

	lastSync, err := f.settings.LastSync(ctx)
	require.NoError(t, err)
	require.NotNil(t, lastSync)
	assert.WithinDuration(t, time.Now(), *lastSync, time.Minute)
}

func TestStatusIsDerived(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	status, err := f.coord.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Online)
	assert.Zero(t, status.Pending)
	assert.Nil(t, status.LastSync)

	f.enqueue(t, outbox.OpCreate, "notes", "n1")
	f.monitor.SetOnline(true)

	status, err = f.coord.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Online)
	assert.Equal(t, 1, status.Pending)
}

func TestLocalTransportDrainsWithoutTransmission(t *testing.T) {
	f := newFixture(t, Config{})
	f.coord.transport = LocalTransport{}
	ctx := context.Background()

	f.enqueue(t, outbox.OpCreate, "notes", "n1")
	f.enqueue(t, outbox.OpDelete, "notes", "n1")

	result, err := f.coord.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, f.pending(t))
	assert.Empty(t, f.transport.callLog(), "nothing reached the recording transport")
}
