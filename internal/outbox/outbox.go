// Package outbox is the durable queue of pending mutations awaiting
// transmission to the remote authority. It stores and orders entries; the
// retry ceiling and drop policy belong to the sync coordinator.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Operation names the mutation kind an entry carries.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

var ErrEntryNotFound = errors.New("outbox entry not found")

// Entry is one pending mutation. Data holds the full or partial record
// payload, always including the record id.
type Entry struct {
	ID         string          `json:"id"`
	Operation  Operation       `json:"operation"`
	Table      string          `json:"table"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	RetryCount int             `json:"retry_count"`
}

// RecordID extracts the id of the record this entry targets.
func (e Entry) RecordID() string {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return ""
	}
	return payload.ID
}

// DeadLetter is an entry that exhausted its retries, kept for inspection
// instead of vanishing.
type DeadLetter struct {
	Entry
	Reason string    `json:"reason"`
	DeadAt time.Time `json:"dead_at"`
}

type Queue struct {
	db  *sql.DB
	log *slog.Logger
}

// New prepares the queue tables on db. The handle is shared with the local
// store so a queued mutation is exactly as durable as the write it records.
func New(db *sql.DB, log *slog.Logger) (*Queue, error) {
	q := &Queue{db: db, log: log}
	if err := q.initTables(); err != nil {
		return nil, fmt.Errorf("init outbox tables: %w", err)
	}
	return q, nil
}

func (q *Queue) initTables() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_queue (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			operation   TEXT NOT NULL,
			table_name  TEXT NOT NULL,
			data        TEXT NOT NULL,
			enqueued_at TEXT NOT NULL,
			retry_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS sync_dead_letter (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL,
			operation   TEXT NOT NULL,
			table_name  TEXT NOT NULL,
			data        TEXT NOT NULL,
			enqueued_at TEXT NOT NULL,
			retry_count INTEGER NOT NULL,
			reason      TEXT NOT NULL,
			dead_at     TEXT NOT NULL
		);
	`)
	return err
}

// Enqueue appends a pending mutation and returns its id. Persistence failure
// is surfaced, never swallowed.
func (q *Queue) Enqueue(ctx context.Context, op Operation, table string, data json.RawMessage) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO sync_queue (id, operation, table_name, data, enqueued_at, retry_count)
		VALUES (?, ?, ?, ?, ?, 0)
	`, id, string(op), table, string(data), now.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("enqueue %s %s: %w", op, table, err)
	}

	if q.log != nil {
		q.log.Debug("mutation queued", "entry_id", id, "operation", op, "table", table)
	}
	return id, nil
}

// ListPending returns all entries oldest first. Within a table this is the
// replay order; across tables only enqueue order is guaranteed.
func (q *Queue) ListPending(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, operation, table_name, data, enqueued_at, retry_count
		FROM sync_queue
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list pending: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return entries, nil
}

// MarkProcessed removes the entry. Idempotent: a missing id is fine.
func (q *Queue) MarkProcessed(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark processed %s: %w", id, err)
	}
	return nil
}

// IncrementRetry bumps the entry's retry count and returns the new value.
func (q *Queue) IncrementRetry(ctx context.Context, id string) (int, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE sync_queue SET retry_count = retry_count + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("increment retry %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("increment retry %s: %w", id, err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("increment retry %s: %w", id, ErrEntryNotFound)
	}

	var count int
	err = q.db.QueryRowContext(ctx,
		`SELECT retry_count FROM sync_queue WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment retry %s: %w", id, err)
	}
	return count, nil
}

// PurgeOlderThan removes entries enqueued earlier than age ago and returns
// how many went. Queue hygiene only, not part of the drain path.
func (q *Queue) PurgeOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age).Format(time.RFC3339Nano)

	res, err := q.db.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE enqueued_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return int(affected), nil
}

// Len returns the number of pending entries.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("queue length: %w", err)
	}
	return count, nil
}

// MoveToDeadLetter copies the exhausted entry into the inspectable dead-letter
// table. Removal from the live queue stays the caller's responsibility so the
// drop remains a single MarkProcessed, as before.
func (q *Queue) MoveToDeadLetter(ctx context.Context, entry Entry, reason string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO sync_dead_letter (id, operation, table_name, data, enqueued_at, retry_count, reason, dead_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, string(entry.Operation), entry.Table, string(entry.Data),
		entry.Timestamp.Format(time.RFC3339Nano), entry.RetryCount, reason,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("dead-letter %s: %w", entry.ID, err)
	}

	if q.log != nil {
		q.log.Warn("entry dead-lettered",
			"entry_id", entry.ID,
			"operation", entry.Operation,
			"table", entry.Table,
			"reason", reason,
		)
	}
	return nil
}

// ListDeadLetters returns dropped entries oldest first.
func (q *Queue) ListDeadLetters(ctx context.Context) ([]DeadLetter, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, operation, table_name, data, enqueued_at, retry_count, reason, dead_at
		FROM sync_dead_letter
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	defer rows.Close()

	var letters []DeadLetter
	for rows.Next() {
		var dl DeadLetter
		var op, enqueuedAt, deadAt, data string

		if err := rows.Scan(&dl.ID, &op, &dl.Table, &data, &enqueuedAt,
			&dl.RetryCount, &dl.Reason, &deadAt); err != nil {
			return nil, fmt.Errorf("list dead letters: %w", err)
		}

		dl.Operation = Operation(op)
		dl.Data = json.RawMessage(data)
		dl.Timestamp, _ = time.Parse(time.RFC3339Nano, enqueuedAt)
		dl.DeadAt, _ = time.Parse(time.RFC3339Nano, deadAt)
		letters = append(letters, dl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}

	return letters, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var op, enqueuedAt, data string

	if err := rows.Scan(&entry.ID, &op, &entry.Table, &data, &enqueuedAt, &entry.RetryCount); err != nil {
		return Entry{}, err
	}

	entry.Operation = Operation(op)
	entry.Data = json.RawMessage(data)

	ts, err := time.Parse(time.RFC3339Nano, enqueuedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse enqueued_at: %w", err)
	}
	entry.Timestamp = ts

	return entry, nil
}
