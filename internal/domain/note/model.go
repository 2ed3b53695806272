package note

import (
	"encoding/json"
	"fmt"
	"time"

	"heybuddy/internal/store"
)

// Table is the local store table notes live in.
const Table = "notes"

type Note struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Color      string     `json:"color,omitempty"`
	IsFavorite bool       `json:"isFavorite"`
	IsArchived bool       `json:"isArchived"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt,omitempty"`
	LastSync   *time.Time `json:"lastSync,omitempty"`
}

// Synced reports whether the note has been acknowledged remotely since its
// last local mutation.
func (n Note) Synced() bool {
	return n.LastSync != nil && !n.LastSync.Before(n.UpdatedAt)
}

func fromRecord(rec store.Record) (Note, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Note{}, fmt.Errorf("decode note: %w", err)
	}

	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return Note{}, fmt.Errorf("decode note: %w", err)
	}
	return n, nil
}
