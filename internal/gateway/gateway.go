// Package gateway is the single choke-point for feature-level writes: the
// local write always settles first, remote sync is best-effort and async.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slog"

	"heybuddy/internal/connectivity"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
	syncer "heybuddy/internal/sync"
)

type Gateway struct {
	store          *store.Store
	queue          *outbox.Queue
	monitor        *connectivity.Monitor
	transport      syncer.Transport
	attemptTimeout time.Duration
	log            *slog.Logger
}

func New(st *store.Store, queue *outbox.Queue, monitor *connectivity.Monitor,
	transport syncer.Transport, attemptTimeout time.Duration, log *slog.Logger) *Gateway {
	if attemptTimeout <= 0 {
		attemptTimeout = 10 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{
		store:          st,
		queue:          queue,
		monitor:        monitor,
		transport:      transport,
		attemptTimeout: attemptTimeout,
		log:            log,
	}
}

// CreateWithSync writes locally, then either transmits immediately (online)
// or queues the mutation. Only the local write's outcome reaches the caller;
// a failed transmission silently becomes an outbox entry.
func (g *Gateway) CreateWithSync(ctx context.Context, table string, data store.Record) (store.Record, error) {
	rec, err := g.store.Create(ctx, table, data)
	if err != nil {
		return nil, err
	}

	if err := g.dispatch(ctx, outbox.OpCreate, table, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateWithSync merges partial locally, then dispatches the full updated
// record. A missing id fails with store.ErrNotFound before anything is queued.
func (g *Gateway) UpdateWithSync(ctx context.Context, table, id string, partial store.Record) (store.Record, error) {
	rec, err := g.store.Update(ctx, table, id, partial)
	if err != nil {
		return nil, err
	}

	if err := g.dispatch(ctx, outbox.OpUpdate, table, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteWithSync removes the record locally (idempotent) and dispatches the
// deletion so the remote copy goes too.
func (g *Gateway) DeleteWithSync(ctx context.Context, table, id string) error {
	if err := g.store.Delete(ctx, table, id); err != nil {
		return err
	}

	return g.dispatch(ctx, outbox.OpDelete, table, store.Record{store.FieldID: id})
}

// dispatch tries an immediate bounded transmission when online and falls back
// to the outbox on any transmission failure. Offline it enqueues
// unconditionally. An outbox persistence failure is the one thing that still
// propagates: the queue never fails silently.
func (g *Gateway) dispatch(ctx context.Context, op outbox.Operation, table string, rec store.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", op, err)
	}

	if g.monitor.Online() {
		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		sendErr := g.transport.Send(attemptCtx, op, table, payload)
		cancel()

		if sendErr == nil {
			if op != outbox.OpDelete {
				if err := g.store.MarkSynced(ctx, table, rec.ID(), time.Now()); err != nil {
					g.log.Warn("mark synced failed", "table", table, "id", rec.ID(), "error", err)
				}
			}
			return nil
		}

		g.log.Debug("immediate transmission failed, queueing",
			"operation", op, "table", table, "id", rec.ID(), "error", sendErr)
	}

	if _, err := g.queue.Enqueue(ctx, op, table, payload); err != nil {
		return err
	}
	return nil
}
