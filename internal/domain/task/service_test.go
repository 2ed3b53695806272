package task

import (
	"context"
	"path/filepath"
	"testing"
	"time"

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

func TestCreateDefaults(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateParams{Title: "file taxes"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Nil(t, created.DueDate)
}

func TestCreateRejectsBadPriority(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestCompleteStampsCompletedAt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{Title: "call plumber"})
	require.NoError(t, err)

	done, err := svc.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	// Reopening clears the completion stamp.
	status := StatusPending
	reopened, err := svc.Update(ctx, created.ID, UpdateParams{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{Title: "x"})
	require.NoError(t, err)

	bad := Status("paused")
	_, err = svc.Update(ctx, created.ID, UpdateParams{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListFiltersAndOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	soon := time.Now().Add(time.Hour)
	later := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-time.Hour)

	_, err := svc.Create(ctx, CreateParams{Title: "no due date"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Title: "due soon", DueDate: &soon})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateParams{Title: "due later", DueDate: &later, Priority: PriorityHigh})
	require.NoError(t, err)
	late, err := svc.Create(ctx, CreateParams{Title: "late", DueDate: &past})
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "late", all[0].Title)
	assert.Equal(t, "no due date", all[3].Title)

	high, err := svc.List(ctx, Filter{Priority: PriorityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "due later", high[0].Title)

	cutoff := time.Now().Add(2 * time.Hour)
	due, err := svc.List(ctx, Filter{DueBefore: &cutoff})
	require.NoError(t, err)
	assert.Len(t, due, 2)

	overdue, err := svc.List(ctx, Filter{Overdue: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	// Completed tasks stop counting as overdue.
	_, err = svc.Complete(ctx, late.ID)
	require.NoError(t, err)
	overdue, err = svc.List(ctx, Filter{Overdue: true})
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
