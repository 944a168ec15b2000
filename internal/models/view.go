package models

import (
	"encoding/json"
	"time"

	"github.com/portfolio-insights/internal/types"
)

// View is a saved chart or table snapshot. The data payload is opaque to
// the server; it is stored and returned verbatim for dashboard composition.
type View struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userId" db:"user_id"`
	Type      types.ViewType   `json:"type" db:"type"`
	Source    types.ViewSource `json:"source" db:"source"`
	Title     string           `json:"title" db:"title"`
	Data      json.RawMessage  `json:"data" db:"data"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
