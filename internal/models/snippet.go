package models

import (
	"time"

	"snip/internal/ident"
)

// Snippet is a named, timestamped free-text record.
type Snippet struct {
	ID        ident.ID  `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
