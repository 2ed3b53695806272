// Package transcript stores voice transcription results. Transcripts are
// mostly append-only; the only supported edit is correcting the text.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"heybuddy/internal/gateway"
	"heybuddy/internal/store"
)

const Table = "transcripts"

var (
	ErrNotFound     = errors.New("transcript not found")
	ErrTextRequired = errors.New("transcript text is required")
)

type Transcript struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	Language        string     `json:"language,omitempty"`
	DurationSeconds float64    `json:"durationSeconds,omitempty"`
	Source          string     `json:"source,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
	LastSync        *time.Time `json:"lastSync,omitempty"`
}

func fromRecord(rec store.Record) (Transcript, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Transcript{}, fmt.Errorf("decode transcript: %w", err)
	}

	var tr Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return Transcript{}, fmt.Errorf("decode transcript: %w", err)
	}
	return tr, nil
}

type Service struct {
	gw *gateway.Gateway
	st *store.Store
}

func NewService(gw *gateway.Gateway, st *store.Store) *Service {
	return &Service{gw: gw, st: st}
}

type CreateParams struct {
	Text            string
	Language        string
	DurationSeconds float64
	Source          string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (Transcript, error) {
	if strings.TrimSpace(p.Text) == "" {
		return Transcript{}, ErrTextRequired
	}

	rec := store.Record{
		"text":     p.Text,
		"language": p.Language,
		"source":   p.Source,
	}
	if p.DurationSeconds > 0 {
		rec["durationSeconds"] = p.DurationSeconds
	}

	created, err := s.gw.CreateWithSync(ctx, Table, rec)
	if err != nil {
		return Transcript{}, err
	}
	return fromRecord(created)
}

func (s *Service) Get(ctx context.Context, id string) (Transcript, error) {
	rec, ok, err := s.st.GetByID(ctx, Table, id)
	if err != nil {
		return Transcript{}, err
	}
	if !ok {
		return Transcript{}, ErrNotFound
	}
	return fromRecord(rec)
}

// CorrectText replaces the transcript body, keeping metadata intact.
func (s *Service) CorrectText(ctx context.Context, id, text string) (Transcript, error) {
	if strings.TrimSpace(text) == "" {
		return Transcript{}, ErrTextRequired
	}

	updated, err := s.gw.UpdateWithSync(ctx, Table, id, store.Record{"text": text})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Transcript{}, ErrNotFound
		}
		return Transcript{}, err
	}
	return fromRecord(updated)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gw.DeleteWithSync(ctx, Table, id)
}

type Filter struct {
	Language string
	Source   string
	Search   string
}

// List returns transcripts matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Transcript, error) {
	recs, err := s.st.Query(ctx, Table, nil)
	if err != nil {
		return nil, err
	}

	out := make([]Transcript, 0, len(recs))
	for _, rec := range recs {
		tr, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if f.Language != "" && !strings.EqualFold(tr.Language, f.Language) {
			continue
		}
		if f.Source != "" && !strings.EqualFold(tr.Source, f.Source) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(tr.Text), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, tr)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
