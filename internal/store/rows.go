package store

import (
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"

	"snip/internal/apperror"
	"snip/internal/ident"
)

// Collection selects the entity namespace an identifier lives in.
type Collection int

const (
	Snippets Collection = iota
	Attachments
)

func (c Collection) String() string {
	switch c {
	case Snippets:
		return "snippet"
	case Attachments:
		return "attachment"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}

func (c Collection) table() (string, error) {
	switch c {
	case Snippets:
		return "snip", nil
	case Attachments:
		return "snip_attachment", nil
	default:
		return "", fmt.Errorf("unknown collection %d", int(c))
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// mustParseTime decodes a stored timestamp. Every stored value was written
// by formatTime, so a failure means the database is corrupt.
func mustParseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		panic(fmt.Sprintf("store: corrupt timestamp %q: %v", value, err))
	}
	return t
}

func columnID(stmt *sqlite.Stmt, col int) (ident.ID, error) {
	raw := stmt.ColumnText(col)
	id, err := ident.Parse(raw)
	if err != nil {
		return ident.Nil, apperror.Storage(fmt.Sprintf("decode id column %d", col), err)
	}
	return id, nil
}
