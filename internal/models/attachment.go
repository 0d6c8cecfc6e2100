package models

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"snip/internal/ident"
)

// Attachment is a binary payload owned by a snippet. Size equals len(Data)
// whenever Data is materialized.
type Attachment struct {
	ID        ident.ID  `json:"id"`
	SnippetID ident.ID  `json:"snippet_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Data      []byte    `json:"-"`
	Size      int64     `json:"size"`
}

// Info returns the metadata view of a.
func (a Attachment) Info() AttachmentInfo {
	return AttachmentInfo{
		ID:        a.ID,
		SnippetID: a.SnippetID,
		CreatedAt: a.CreatedAt,
		Name:      a.Name,
		Size:      a.Size,
	}
}

// Digest returns the hex BLAKE3 digest of the materialized payload.
func (a Attachment) Digest() string {
	sum := blake3.Sum256(a.Data)
	return hex.EncodeToString(sum[:])
}

// AttachmentInfo is attachment metadata without the payload.
type AttachmentInfo struct {
	ID        ident.ID  `json:"id"`
	SnippetID ident.ID  `json:"snippet_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
}
