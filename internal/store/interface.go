package store

import (
	"io"

	"snip/internal/ident"
	"snip/internal/models"
)

// SnippetStore abstracts snippet storage backends.
type SnippetStore interface {
	CreateSnippet(name, text string) (*models.Snippet, error)
	GetFirstSnippet() (*models.Snippet, error)
	GetSnippet(id ident.ID) (*models.Snippet, error)
	ListSnippets() ([]models.Snippet, error)
	UpdateSnippet(id ident.ID, update SnippetUpdate) (*models.Snippet, error)
	DeleteSnippet(id ident.ID) error
	SearchSnippets(query string) ([]models.Snippet, error)
}

// AttachmentStore is the persistence surface for attachment blobs.
//
// Kept separate from SnippetStore since attachments only reference their
// owner loosely.
type AttachmentStore interface {
	AddAttachment(owner ident.ID, path string) (*models.Attachment, error)
	GetAttachment(id ident.ID) (*models.Attachment, error)
	GetAttachmentInfo(id ident.ID) (*models.AttachmentInfo, error)
	CopyAttachmentData(id ident.ID, w io.Writer) (int64, error)
	ListAttachmentIDs() ([]ident.ID, error)
	ListAttachments(owner ident.ID) ([]models.AttachmentInfo, error)
	RemoveAttachment(a *models.Attachment) error
}

// Resolver turns partial identifiers into full ones.
type Resolver interface {
	Resolve(partial string, c Collection) (ident.ID, error)
}

var (
	_ SnippetStore    = (*Store)(nil)
	_ AttachmentStore = (*Store)(nil)
	_ Resolver        = (*Store)(nil)
)
