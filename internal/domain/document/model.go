// Package document is the server-side view of synced client records: opaque
// JSON documents keyed by owner, collection and client-assigned id.
package document

import (
	"encoding/json"
	"time"
)

type Document struct {
	OwnerID   int64           `json:"-"`
	Table     string          `json:"-"`
	ID        string          `json:"id"`
	Doc       json.RawMessage `json:"doc"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
