// Package task manages the task list. Status transitions are free-form
// except that completing a task stamps completedAt and reopening clears it.
package task

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"heybuddy/internal/gateway"
	"heybuddy/internal/store"
)

type Service struct {
	gw *gateway.Gateway
	st *store.Store
}

func NewService(gw *gateway.Gateway, st *store.Store) *Service {
	return &Service{gw: gw, st: st}
}

type CreateParams struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

func (s *Service) Create(ctx context.Context, p CreateParams) (Task, error) {
	if strings.TrimSpace(p.Title) == "" {
		return Task{}, ErrTitleRequired
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if !p.Priority.Valid() {
		return Task{}, ErrInvalidPriority
	}

	rec := store.Record{
		"title":       p.Title,
		"description": p.Description,
		"status":      string(StatusPending),
		"priority":    string(p.Priority),
	}
	if p.DueDate != nil {
		rec["dueDate"] = p.DueDate.UTC().Format(time.RFC3339Nano)
	}

	created, err := s.gw.CreateWithSync(ctx, Table, rec)
	if err != nil {
		return Task{}, err
	}
	return fromRecord(created)
}

func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	rec, ok, err := s.st.GetByID(ctx, Table, id)
	if err != nil {
		return Task{}, err
	}
	if !ok {
		return Task{}, ErrNotFound
	}
	return fromRecord(rec)
}

type UpdateParams struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	ClearDue    bool
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Task, error) {
	patch := store.Record{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return Task{}, ErrTitleRequired
		}
		patch["title"] = *p.Title
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return Task{}, ErrInvalidStatus
		}
		patch["status"] = string(*p.Status)
		if *p.Status == StatusCompleted {
			patch["completedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
		} else {
			patch["completedAt"] = nil
		}
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return Task{}, ErrInvalidPriority
		}
		patch["priority"] = string(*p.Priority)
	}
	if p.DueDate != nil {
		patch["dueDate"] = p.DueDate.UTC().Format(time.RFC3339Nano)
	} else if p.ClearDue {
		patch["dueDate"] = nil
	}

	updated, err := s.gw.UpdateWithSync(ctx, Table, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return fromRecord(updated)
}

// Complete marks the task done and stamps completion time.
func (s *Service) Complete(ctx context.Context, id string) (Task, error) {
	status := StatusCompleted
	return s.Update(ctx, id, UpdateParams{Status: &status})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.DeleteWithSync(ctx, Table, id)
}

type Filter struct {
	Status    Status
	Priority  Priority
	DueBefore *time.Time
	Overdue   bool
}

// List returns matching tasks ordered by due date, tasks without one last.
func (s *Service) List(ctx context.Context, f Filter) ([]Task, error) {
	recs, err := s.st.Query(ctx, Table, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		tk, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if f.Status != "" && tk.Status != f.Status {
			continue
		}
		if f.Priority != "" && tk.Priority != f.Priority {
			continue
		}
		if f.DueBefore != nil && (tk.DueDate == nil || !tk.DueDate.Before(*f.DueBefore)) {
			continue
		}
		if f.Overdue && !tk.Overdue(now) {
			continue
		}
		tasks = append(tasks, tk)
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil && b == nil:
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return tasks, nil
}
