// Package note implements note management on top of the local-first
// mutation gateway: every write lands locally first and is transmitted
// or queued by the gateway.
package note

import (
	"context"
	"errors"
	"sort"
	"strings"

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
	Title      string
	Content    string
	Tags       []string
	Color      string
	IsFavorite bool
}

func (s *Service) Create(ctx context.Context, p CreateParams) (Note, error) {
	if strings.TrimSpace(p.Title) == "" {
		return Note{}, ErrTitleRequired
	}

	rec := store.Record{
		"title":      p.Title,
		"content":    p.Content,
		"tags":       p.Tags,
		"color":      p.Color,
		"isFavorite": p.IsFavorite,
		"isArchived": false,
	}
	created, err := s.gw.CreateWithSync(ctx, Table, rec)
	if err != nil {
		return Note{}, err
	}
	return fromRecord(created)
}

func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	rec, ok, err := s.st.GetByID(ctx, Table, id)
	if err != nil {
		return Note{}, err
	}
	if !ok {
		return Note{}, ErrNotFound
	}
	return fromRecord(rec)
}

// UpdateParams carries a partial update; nil fields keep their stored value.
type UpdateParams struct {
	Title      *string
	Content    *string
	Tags       *[]string
	Color      *string
	IsFavorite *bool
	IsArchived *bool
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Note, error) {
	patch := store.Record{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return Note{}, ErrTitleRequired
		}
		patch["title"] = *p.Title
	}
	if p.Content != nil {
		patch["content"] = *p.Content
	}
	if p.Tags != nil {
		patch["tags"] = *p.Tags
	}
	if p.Color != nil {
		patch["color"] = *p.Color
	}
	if p.IsFavorite != nil {
		patch["isFavorite"] = *p.IsFavorite
	}
	if p.IsArchived != nil {
		patch["isArchived"] = *p.IsArchived
	}

	updated, err := s.gw.UpdateWithSync(ctx, Table, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return fromRecord(updated)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.DeleteWithSync(ctx, Table, id)
}

type Filter struct {
	Archived *bool
	Favorite *bool
	Tag      string
	Search   string
}

// List returns notes matching the filter, most recently updated first.
func (s *Service) List(ctx context.Context, f Filter) ([]Note, error) {
	recs, err := s.st.Query(ctx, Table, nil)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(recs))
	for _, rec := range recs {
		n, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if !matches(n, f) {
			continue
		}
		notes = append(notes, n)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func matches(n Note, f Filter) bool {
	if f.Archived != nil && n.IsArchived != *f.Archived {
		return false
	}
	if f.Favorite != nil && n.IsFavorite != *f.Favorite {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range n.Tags {
			if strings.EqualFold(t, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			return false
		}
	}
	return true
}
