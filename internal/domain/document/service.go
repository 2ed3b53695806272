package document

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"
)

// Tables the server accepts. Must stay in step with the client store.
var tables = map[string]bool{
	"notes":       true,
	"tasks":       true,
	"schedules":   true,
	"transcripts": true,
}

type Servicer interface {
	Save(ctx context.Context, ownerID int64, table string, doc json.RawMessage) (string, error)
	Find(ctx context.Context, ownerID int64, table, id string) (Document, error)
	List(ctx context.Context, ownerID int64, table string) ([]Document, error)
	Delete(ctx context.Context, ownerID int64, table, id string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Save upserts a document. Clients replay queued mutations at least once, so
// a repeated create of the same id must land as an update, not a conflict.
func (s *Service) Save(ctx context.Context, ownerID int64, table string, doc json.RawMessage) (string, error) {
	if !tables[table] {
		return "", fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	id, err := extractID(doc)
	if err != nil {
		return "", err
	}

	if err := s.repo.Upsert(ctx, Document{
		OwnerID: ownerID,
		Table:   table,
		ID:      id,
		Doc:     doc,
	}); err != nil {
		return "", fmt.Errorf("upsert document: %w", err)
	}
	return id, nil
}

func (s *Service) Find(ctx context.Context, ownerID int64, table, id string) (Document, error) {
	if !tables[table] {
		return Document{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return s.repo.Find(ctx, ownerID, table, id)
}

func (s *Service) List(ctx context.Context, ownerID int64, table string) ([]Document, error) {
	if !tables[table] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return s.repo.List(ctx, ownerID, table)
}

// Delete is idempotent; removing an already-deleted document succeeds.
func (s *Service) Delete(ctx context.Context, ownerID int64, table, id string) error {
	if !tables[table] {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return s.repo.Delete(ctx, ownerID, table, id)
}

func extractID(doc json.RawMessage) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil {
		return "", fmt.Errorf("decode document: %w", err)
	}
	if probe.ID == "" {
		return "", ErrMissingID
	}
	return probe.ID, nil
}
