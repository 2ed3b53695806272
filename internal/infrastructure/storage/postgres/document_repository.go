package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"heybuddy/internal/domain/document"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) *DocumentRepository {
	return &DocumentRepository{
		pool: pool,
		log:  log,
	}
}

func (r *DocumentRepository) Upsert(ctx context.Context, doc document.Document) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (owner_id, table_name, id, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, table_name, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		doc.OwnerID, doc.Table, doc.ID, doc.Doc)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Find(ctx context.Context, ownerID int64, table, id string) (document.Document, error) {
	d := document.Document{OwnerID: ownerID, Table: table}
	err := r.pool.QueryRow(ctx, `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE owner_id = $1 AND table_name = $2 AND id = $3`,
		ownerID, table, id).
		Scan(&d.ID, &d.Doc, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return d, document.ErrNotFound
		}
		return d, fmt.Errorf("select document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepository) List(ctx context.Context, ownerID int64, table string) ([]document.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE owner_id = $1 AND table_name = $2
		ORDER BY created_at`,
		ownerID, table)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		d := document.Document{OwnerID: ownerID, Table: table}
		if err := rows.Scan(&d.ID, &d.Doc, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, ownerID int64, table, id string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM documents
		WHERE owner_id = $1 AND table_name = $2 AND id = $3`,
		ownerID, table, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
