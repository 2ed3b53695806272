// Package settings persists flat key→value state across sessions, such as the
// last successful full-sync timestamp and user preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heybuddy/internal/store"
)

const (
	tableName   = "settings"
	KeyLastSync = "lastSync"
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Get returns the value for key and whether it is set.
func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	rec, found, err := s.store.GetByID(ctx, tableName, key)
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	if !found {
		return "", false, nil
	}

	value, _ := rec["value"].(string)
	return value, true, nil
}

// Set upserts key. The store stamps updatedAt on every write.
func (s *Service) Set(ctx context.Context, key, value string) error {
	_, err := s.store.Update(ctx, tableName, key, store.Record{"value": value})
	if errors.Is(err, store.ErrNotFound) {
		_, err = s.store.Create(ctx, tableName, store.Record{"id": key, "value": value})
	}
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// LastSync returns the persisted timestamp of the last successful full sync,
// or nil when no sync has completed yet.
func (s *Service) LastSync(ctx context.Context) (*time.Time, error) {
	value, found, err := s.Get(ctx, KeyLastSync)
	if err != nil || !found {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyLastSync, err)
	}
	return &t, nil
}

func (s *Service) SetLastSync(ctx context.Context, t time.Time) error {
	return s.Set(ctx, KeyLastSync, t.UTC().Format(time.RFC3339Nano))
}
