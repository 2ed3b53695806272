package sync

import (
	"context"
	"errors"
	"io"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"heybuddy/internal/connectivity"
	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
)

// ErrDrainInProgress is returned when a drain is triggered while one is
// already running. Concurrent triggers collapse into the in-flight drain,
// they are never queued.
var ErrDrainInProgress = errors.New("drain already in progress")

// syncTables are the record tables a full sync pulls from the remote
// authority. users and settings stay device-local.
var syncTables = []string{"notes", "tasks", "schedules", "transcripts"}

// Config controls the drop and timeout policy of the coordinator.
type Config struct {
	// RetryLimit is the retry ceiling: once an entry's retry count reaches
	// it, the entry is dead-lettered and dropped from the queue.
	RetryLimit int

	// AttemptTimeout bounds a single transmission attempt so one stuck call
	// cannot stall the whole drain.
	AttemptTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.RetryLimit <= 0 {
		c.RetryLimit = 3
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 10 * time.Second
	}
	return c
}

// SettingsStore is the slice of the settings service the coordinator needs.
type SettingsStore interface {
	LastSync(ctx context.Context) (*time.Time, error)
	SetLastSync(ctx context.Context, t time.Time) error
}

// EntryError records one failed transmission inside a drain pass.
type EntryError struct {
	EntryID   string           `json:"entry_id"`
	Operation outbox.Operation `json:"operation"`
	Table     string           `json:"table"`
	Error     string           `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
}

// DrainResult summarizes one pass over the pending entries.
type DrainResult struct {
	Attempted int          `json:"attempted"`
	Sent      int          `json:"sent"`
	Failed    int          `json:"failed"`
	Dropped   int          `json:"dropped"`
	Errors    []EntryError `json:"errors,omitempty"`
}

// FullSyncResult summarizes a pull-and-replace plus the drain that follows.
type FullSyncResult struct {
	Pulled   int           `json:"pulled"`
	Drain    *DrainResult  `json:"drain,omitempty"`
	Errors   []EntryError  `json:"errors,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Status is derived state, never stored: connectivity flag, queue depth and
// the persisted last full-sync timestamp.
type Status struct {
	Online      bool       `json:"online"`
	Pending     int        `json:"pending"`
	DeadLetters int        `json:"dead_letters"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
}

// Coordinator bridges connectivity transitions to queue draining. It is
// either Idle or Draining; the transition into Draining is guarded by a
// single-flight flag.
type Coordinator struct {
	store     *store.Store
	queue     *outbox.Queue
	monitor   *connectivity.Monitor
	transport Transport
	settings  SettingsStore
	cfg       Config
	log       *slog.Logger

	mu       gosync.Mutex
	draining bool
	subToken int
}

func NewCoordinator(st *store.Store, queue *outbox.Queue, monitor *connectivity.Monitor,
	transport Transport, settings SettingsStore, cfg Config, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		store:     st,
		queue:     queue,
		monitor:   monitor,
		transport: transport,
		settings:  settings,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// Start subscribes to connectivity transitions: coming back online triggers a
// drain. Stop undoes the subscription.
func (c *Coordinator) Start(ctx context.Context) {
	c.subToken = c.monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		if _, err := c.Drain(ctx); err != nil && !errors.Is(err, ErrDrainInProgress) {
			c.log.Error("drain after reconnect failed", "error", err)
		}
	})
}

func (c *Coordinator) Stop() {
	c.monitor.Unsubscribe(c.subToken)
}

// Drain runs one pass over the entries pending at call time. Entries enqueued
// while the pass runs are left for the next one. A concurrent Drain returns
// ErrDrainInProgress.
func (c *Coordinator) Drain(ctx context.Context) (*DrainResult, error) {
	if !c.beginDrain() {
		return nil, ErrDrainInProgress
	}
	defer c.endDrain()

	return c.drain(ctx)
}

// drain assumes the single-flight flag is held.
func (c *Coordinator) drain(ctx context.Context) (*DrainResult, error) {
	entries, err := c.queue.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &DrainResult{Attempted: len(entries)}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		c.processEntry(ctx, entry, result)
	}

	if result.Attempted > 0 {
		c.log.Info("drain finished",
			"attempted", result.Attempted,
			"sent", result.Sent,
			"failed", result.Failed,
			"dropped", result.Dropped,
		)
	}
	return result, nil
}

// processEntry attempts one transmission. A failure never aborts the batch;
// the caller moves on to the next entry.
func (c *Coordinator) processEntry(ctx context.Context, entry outbox.Entry, result *DrainResult) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	sendErr := c.transport.Send(attemptCtx, entry.Operation, entry.Table, entry.Data)
	cancel()

	if sendErr == nil {
		if err := c.queue.MarkProcessed(ctx, entry.ID); err != nil {
			c.log.Error("mark processed failed", "entry_id", entry.ID, "error", err)
			result.Errors = append(result.Errors, entryError(entry, err))
			result.Failed++
			return
		}
		if entry.Operation != outbox.OpDelete {
			if id := entry.RecordID(); id != "" {
				if err := c.store.MarkSynced(ctx, entry.Table, id, time.Now()); err != nil {
					c.log.Warn("mark synced failed", "table", entry.Table, "id", id, "error", err)
				}
			}
		}
		result.Sent++
		return
	}

	result.Errors = append(result.Errors, entryError(entry, sendErr))

	count, err := c.queue.IncrementRetry(ctx, entry.ID)
	if err != nil {
		c.log.Error("increment retry failed", "entry_id", entry.ID, "error", err)
		result.Failed++
		return
	}

	if count < c.cfg.RetryLimit {
		result.Failed++
		return
	}

	// Ceiling reached: the entry is dropped without surfacing beyond the log,
	// but a dead-letter copy is kept for inspection.
	entry.RetryCount = count
	if err := c.queue.MoveToDeadLetter(ctx, entry, sendErr.Error()); err != nil {
		c.log.Error("dead-letter failed", "entry_id", entry.ID, "error", err)
	}
	if err := c.queue.MarkProcessed(ctx, entry.ID); err != nil {
		c.log.Error("drop failed", "entry_id", entry.ID, "error", err)
		result.Failed++
		return
	}
	result.Dropped++
}

// FullSync pulls the authoritative per-table data for ownerID, replaces the
// local tables, then drains the queue, and persists the sync timestamp.
//
// A local mutation issued between the pull-and-replace and the drain can be
// overwritten by the remote copy. Avoid FullSync while writes are in flight.
func (c *Coordinator) FullSync(ctx context.Context, ownerID string) (*FullSyncResult, error) {
	if !c.beginDrain() {
		return nil, ErrDrainInProgress
	}
	defer c.endDrain()

	start := time.Now()
	result := &FullSyncResult{}

	for _, table := range syncTables {
		records, err := c.transport.Pull(ctx, table, ownerID)
		if err != nil {
			c.log.Error("pull failed", "table", table, "error", err)
			result.Errors = append(result.Errors, EntryError{
				Table: table, Error: err.Error(), Timestamp: time.Now(),
			})
			continue
		}

		if err := c.store.ReplaceAll(ctx, table, records); err != nil {
			c.log.Error("replace failed", "table", table, "error", err)
			result.Errors = append(result.Errors, EntryError{
				Table: table, Error: err.Error(), Timestamp: time.Now(),
			})
			continue
		}
		result.Pulled += len(records)
	}

	drainRes, err := c.drain(ctx)
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Drain = drainRes

	if err := c.settings.SetLastSync(ctx, time.Now()); err != nil {
		c.log.Warn("persist last sync failed", "error", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Status derives the current sync state.
func (c *Coordinator) Status(ctx context.Context) (*Status, error) {
	pending, err := c.queue.Len(ctx)
	if err != nil {
		return nil, err
	}

	letters, err := c.queue.ListDeadLetters(ctx)
	if err != nil {
		return nil, err
	}

	lastSync, err := c.settings.LastSync(ctx)
	if err != nil {
		return nil, err
	}

	return &Status{
		Online:      c.monitor.Online(),
		Pending:     pending,
		DeadLetters: len(letters),
		LastSync:    lastSync,
	}, nil
}

// Draining reports whether a drain pass is running.
func (c *Coordinator) Draining() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draining
}

func (c *Coordinator) beginDrain() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draining {
		return false
	}
	c.draining = true
	return true
}

func (c *Coordinator) endDrain() {
	c.mu.Lock()
	c.draining = false
	c.mu.Unlock()
}

func entryError(entry outbox.Entry, err error) EntryError {
	return EntryError{
		EntryID:   entry.ID,
		Operation: entry.Operation,
		Table:     entry.Table,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}
