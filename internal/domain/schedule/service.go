// Package schedule manages calendar events.
package schedule

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
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         *time.Time
	Location        string
	AllDay          bool
	ReminderMinutes int
	Color           string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (Event, error) {
	if strings.TrimSpace(p.Title) == "" {
		return Event{}, ErrTitleRequired
	}
	if p.StartTime.IsZero() {
		return Event{}, ErrStartRequired
	}
	if p.EndTime != nil && p.EndTime.Before(p.StartTime) {
		return Event{}, ErrEndBeforeStart
	}

	rec := store.Record{
		"title":       p.Title,
		"description": p.Description,
		"startTime":   p.StartTime.UTC().Format(time.RFC3339Nano),
		"location":    p.Location,
		"allDay":      p.AllDay,
		"color":       p.Color,
	}
	if p.EndTime != nil {
		rec["endTime"] = p.EndTime.UTC().Format(time.RFC3339Nano)
	}
	if p.ReminderMinutes > 0 {
		rec["reminderMinutes"] = p.ReminderMinutes
	}

	created, err := s.gw.CreateWithSync(ctx, Table, rec)
	if err != nil {
		return Event{}, err
	}
	return fromRecord(created)
}

func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	rec, ok, err := s.st.GetByID(ctx, Table, id)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, ErrNotFound
	}
	return fromRecord(rec)
}

type UpdateParams struct {
	Title           *string
	Description     *string
	StartTime       *time.Time
	EndTime         *time.Time
	ClearEnd        bool
	Location        *string
	AllDay          *bool
	ReminderMinutes *int
	Color           *string
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Event, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}

	start := current.StartTime
	if p.StartTime != nil {
		start = *p.StartTime
	}
	end := current.EndTime
	if p.EndTime != nil {
		end = p.EndTime
	} else if p.ClearEnd {
		end = nil
	}
	if end != nil && end.Before(start) {
		return Event{}, ErrEndBeforeStart
	}

	patch := store.Record{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return Event{}, ErrTitleRequired
		}
		patch["title"] = *p.Title
	}
	if p.Description != nil {
		patch["description"] = *p.Description
	}
	if p.StartTime != nil {
		patch["startTime"] = start.UTC().Format(time.RFC3339Nano)
	}
	if p.EndTime != nil {
		patch["endTime"] = end.UTC().Format(time.RFC3339Nano)
	} else if p.ClearEnd {
		patch["endTime"] = nil
	}
	if p.Location != nil {
		patch["location"] = *p.Location
	}
	if p.AllDay != nil {
		patch["allDay"] = *p.AllDay
	}
	if p.ReminderMinutes != nil {
		patch["reminderMinutes"] = *p.ReminderMinutes
	}
	if p.Color != nil {
		patch["color"] = *p.Color
	}

	updated, err := s.gw.UpdateWithSync(ctx, Table, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return fromRecord(updated)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.DeleteWithSync(ctx, Table, id)
}

// ListRange returns events overlapping [from, to), ordered by start time.
// A zero `to` means no upper bound.
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	if to.IsZero() {
		to = time.Unix(1<<62, 0)
	}

	recs, err := s.st.Query(ctx, Table, nil)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		e, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if !e.Overlaps(from, to) {
			continue
		}
		events = append(events, e)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

// Upcoming returns events starting within d of now.
func (s *Service) Upcoming(ctx context.Context, d time.Duration) ([]Event, error) {
	now := time.Now()
	return s.ListRange(ctx, now, now.Add(d))
}
