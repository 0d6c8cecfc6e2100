package store

import (
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"snip/internal/apperror"
	"snip/internal/ident"
)

// resolveLimit is enough to tell one match from many.
const resolveLimit = 2

// Resolve maps partial, any substring of an identifier's canonical form
// (separators included), to the single matching identifier in c. It
// fails with NotFound when nothing matches and MultipleMatches when more
// than one identifier does.
func (s *Store) Resolve(partial string, c Collection) (ident.ID, error) {
	table, err := c.table()
	if err != nil {
		return ident.Nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(partial))

	matches := make([]ident.ID, 0, resolveLimit)
	err = sqlitex.Execute(s.conn, `SELECT uuid FROM `+table+` WHERE instr(uuid, ?) > 0 LIMIT ?`, &sqlitex.ExecOptions{
		Args: []any{needle, resolveLimit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id, err := columnID(stmt, 0)
			if err != nil {
				return err
			}
			matches = append(matches, id)
			return nil
		},
	})
	if err != nil {
		return ident.Nil, storageErr("resolve "+c.String()+" id", err)
	}

	switch len(matches) {
	case 0:
		return ident.Nil, apperror.NotFound(c.String(), partial)
	case 1:
		return matches[0], nil
	default:
		return ident.Nil, apperror.MultipleMatches(c.String(), partial)
	}
}
