package models

import (
	"encoding/json"
	"time"
)

// Preference holds per-user UI state for one view: column visibility,
// pinning, filter selections, page size. Keyed by (user, view) with
// last-write-wins semantics; the settings payload is opaque JSON.
type Preference struct {
	UserID    string          `json:"userId" db:"user_id"`
	ViewID    string          `json:"viewId" db:"view_id"`
	Settings  json.RawMessage `json:"settings" db:"settings"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
