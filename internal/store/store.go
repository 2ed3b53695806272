// Package store is the local side of the local-first write path: durable keyed
// storage per table over SQLite, holding schemaless JSON documents.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

// Reserved field names merged into every stored document.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldLastSync  = "lastSync"
)

// Record is one schemaless document. Domain packages marshal their typed
// models through it.
type Record map[string]any

// ID returns the record id, or "" when unset.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

var tables = map[string]bool{
	"notes":       true,
	"tasks":       true,
	"schedules":   true,
	"transcripts": true,
	"users":       true,
	"settings":    true,
}

// Tables lists the table whitelist in no particular order.
func Tables() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	return names
}

// KnownTable reports whether name is a whitelisted table.
func KnownTable(name string) bool {
	return tables[name]
}

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and prepares
// the document schema.
func Open(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return s, nil
}

func (s *Store) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			table_name TEXT NOT NULL,
			id         TEXT NOT NULL,
			doc        TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			last_sync  TEXT,
			PRIMARY KEY (table_name, id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_table ON documents(table_name);
	`)
	return err
}

// DB exposes the underlying handle so the outbox can live in the same file
// and share its durability.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts data into table. A missing id is assigned from the local
// clock, matching the id scheme the records were born with on other devices.
// createdAt/updatedAt are stamped, lastSync starts empty. Inserting an
// existing id fails with a *StoreError wrapping ErrDuplicateID.
func (s *Store) Create(ctx context.Context, table string, data Record) (Record, error) {
	if !tables[table] {
		return nil, storeErr("create", table, ErrUnknownTable)
	}

	now := time.Now().UTC()
	rec := clone(data)
	if rec.ID() == "" {
		rec[FieldID] = strconv.FormatInt(now.UnixNano(), 10)
	}
	rec[FieldCreatedAt] = now.Format(time.RFC3339Nano)
	rec[FieldUpdatedAt] = now.Format(time.RFC3339Nano)
	rec[FieldLastSync] = nil

	doc, err := marshalDoc(rec)
	if err != nil {
		return nil, storeErr("create", table, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (table_name, id, doc, created_at, updated_at, last_sync)
		VALUES (?, ?, ?, ?, ?, NULL)
	`, table, rec.ID(), doc, rec[FieldCreatedAt], rec[FieldUpdatedAt])
	if err != nil {
		if isConstraintViolation(err) {
			return nil, storeErr("create", table, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID()))
		}
		return nil, storeErr("create", table, err)
	}

	return rec, nil
}

// GetByID returns the record and whether it exists. A missing id is a signal,
// not an error.
func (s *Store) GetByID(ctx context.Context, table, id string) (Record, bool, error) {
	if !tables[table] {
		return nil, false, storeErr("get", table, ErrUnknownTable)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT doc, created_at, updated_at, last_sync
		FROM documents
		WHERE table_name = ? AND id = ?
	`, table, id)

	rec, err := scanRecord(row, id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("get", table, err)
	}

	return rec, true, nil
}

// Update merges partial into the stored record and rewrites updatedAt.
// id and createdAt are immutable and ignored if present in partial.
func (s *Store) Update(ctx context.Context, table, id string, partial Record) (Record, error) {
	if !tables[table] {
		return nil, storeErr("update", table, ErrUnknownTable)
	}

	rec, found, err := s.GetByID(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, ErrNotFound)
	}

	for k, v := range partial {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldLastSync:
			continue
		}
		rec[k] = v
	}
	rec[FieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339Nano)

	doc, err := marshalDoc(rec)
	if err != nil {
		return nil, storeErr("update", table, err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents SET doc = ?, updated_at = ?
		WHERE table_name = ? AND id = ?
	`, doc, rec[FieldUpdatedAt], table, id)
	if err != nil {
		return nil, storeErr("update", table, err)
	}

	return rec, nil
}

// Delete removes the record. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, table, id string) error {
	if !tables[table] {
		return storeErr("delete", table, ErrUnknownTable)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE table_name = ? AND id = ?`, table, id)
	if err != nil {
		return storeErr("delete", table, err)
	}
	return nil
}

// Query returns the records matching pred in insertion order. The result is a
// snapshot at call time; later store mutations do not affect it. A nil pred
// matches everything.
func (s *Store) Query(ctx context.Context, table string, pred func(Record) bool) ([]Record, error) {
	if !tables[table] {
		return nil, storeErr("query", table, ErrUnknownTable)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc, created_at, updated_at, last_sync
		FROM documents
		WHERE table_name = ?
		ORDER BY rowid ASC
	`, table)
	if err != nil {
		return nil, storeErr("query", table, err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var id string
		var doc string
		var createdAt, updatedAt string
		var lastSync sql.NullString

		if err := rows.Scan(&id, &doc, &createdAt, &updatedAt, &lastSync); err != nil {
			return nil, storeErr("query", table, err)
		}

		rec, err := unmarshalDoc(id, doc, createdAt, updatedAt, lastSync)
		if err != nil {
			return nil, storeErr("query", table, err)
		}

		if pred == nil || pred(rec) {
			result = append(result, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query", table, err)
	}

	return result, nil
}

// Count returns the number of records in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !tables[table] {
		return 0, storeErr("count", table, ErrUnknownTable)
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE table_name = ?`, table).Scan(&count)
	if err != nil {
		return 0, storeErr("count", table, err)
	}
	return count, nil
}

// MarkSynced stamps lastSync after a remote acknowledgment. It deliberately
// does not touch updatedAt: sync bookkeeping is not a domain mutation. Marking
// a record that no longer exists locally is a no-op.
func (s *Store) MarkSynced(ctx context.Context, table, id string, t time.Time) error {
	if !tables[table] {
		return storeErr("mark-synced", table, ErrUnknownTable)
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET last_sync = ?
		WHERE table_name = ? AND id = ?
	`, t.UTC().Format(time.RFC3339Nano), table, id)
	if err != nil {
		return storeErr("mark-synced", table, err)
	}
	return nil
}

// ReplaceAll atomically swaps the whole table for records, used by the full
// sync pull. Incoming timestamps are kept; lastSync is stamped with now since
// the rows just came from the remote authority.
func (s *Store) ReplaceAll(ctx context.Context, table string, records []Record) error {
	if !tables[table] {
		return storeErr("replace", table, ErrUnknownTable)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("replace", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE table_name = ?`, table); err != nil {
		return storeErr("replace", table, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, data := range records {
		rec := clone(data)
		if rec.ID() == "" {
			return storeErr("replace", table, fmt.Errorf("record without id"))
		}

		createdAt, _ := rec[FieldCreatedAt].(string)
		updatedAt, _ := rec[FieldUpdatedAt].(string)
		if createdAt == "" {
			createdAt = now
		}
		if updatedAt == "" {
			updatedAt = now
		}
		rec[FieldCreatedAt] = createdAt
		rec[FieldUpdatedAt] = updatedAt

		doc, err := marshalDoc(rec)
		if err != nil {
			return storeErr("replace", table, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (table_name, id, doc, created_at, updated_at, last_sync)
			VALUES (?, ?, ?, ?, ?, ?)
		`, table, rec.ID(), doc, createdAt, updatedAt, now); err != nil {
			return storeErr("replace", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("replace", table, err)
	}

	if s.log != nil {
		s.log.Debug("table replaced from remote", "table", table, "count", len(records))
	}
	return nil
}

// marshalDoc serializes the domain fields only; the reserved fields live in
// their own columns.
func marshalDoc(rec Record) (string, error) {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		switch k {
		case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldLastSync:
			continue
		}
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}

func unmarshalDoc(id, doc, createdAt, updatedAt string, lastSync sql.NullString) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	rec[FieldID] = id
	rec[FieldCreatedAt] = createdAt
	rec[FieldUpdatedAt] = updatedAt
	if lastSync.Valid {
		rec[FieldLastSync] = lastSync.String
	} else {
		rec[FieldLastSync] = nil
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, id string) (Record, error) {
	var doc, createdAt, updatedAt string
	var lastSync sql.NullString

	if err := row.Scan(&doc, &createdAt, &updatedAt, &lastSync); err != nil {
		return nil, err
	}
	return unmarshalDoc(id, doc, createdAt, updatedAt, lastSync)
}

func clone(rec Record) Record {
	out := make(Record, len(rec)+3)
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func isConstraintViolation(err error) bool {
	// mattn/go-sqlite3 reports these as "UNIQUE constraint failed: ...".
	return err != nil && strings.Contains(err.Error(), "constraint")
}
