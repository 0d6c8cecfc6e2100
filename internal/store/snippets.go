package store

import (
	"fmt"
	"strings"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"snip/internal/apperror"
	"snip/internal/ident"
	"snip/internal/models"
	"snip/internal/tokenize"
)

const snippetColumns = "uuid, name, timestamp, data"

// SnippetUpdate holds the mutable snippet fields. Nil fields are left as is.
type SnippetUpdate struct {
	Name *string
	Text *string
}

// CreateSnippet inserts a new snippet with a fresh id and the current time.
func (s *Store) CreateSnippet(name, text string) (_ *models.Snippet, err error) {
	snippet := &models.Snippet{
		ID:        ident.New(),
		Name:      name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	release := sqlitex.Save(s.conn)
	defer release(&err)

	err = sqlitex.Execute(s.conn, `INSERT INTO snip (uuid, name, timestamp, data) VALUES (?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{snippet.ID.String(), snippet.Name, formatTime(snippet.CreatedAt), snippet.Text},
	})
	if err != nil {
		return nil, apperror.Storage("insert snippet", err)
	}
	if err = s.indexSnippet(snippet); err != nil {
		return nil, err
	}
	return snippet, nil
}

// GetFirstSnippet returns an arbitrary snippet; no ordering is applied.
func (s *Store) GetFirstSnippet() (*models.Snippet, error) {
	snippets, err := s.querySnippets(`SELECT ` + snippetColumns + ` FROM snip LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(snippets) == 0 {
		return nil, apperror.NotFound(Snippets.String(), "first")
	}
	return &snippets[0], nil
}

// GetSnippet returns the snippet with exactly id.
func (s *Store) GetSnippet(id ident.ID) (*models.Snippet, error) {
	snippets, err := s.querySnippets(`SELECT `+snippetColumns+` FROM snip WHERE uuid = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(snippets) == 0 {
		return nil, apperror.NotFound(Snippets.String(), id.String())
	}
	return &snippets[0], nil
}

// ListSnippets returns all snippets in backend scan order.
func (s *Store) ListSnippets() ([]models.Snippet, error) {
	return s.querySnippets(`SELECT ` + snippetColumns + ` FROM snip`)
}

// UpdateSnippet changes name and/or text in place.
func (s *Store) UpdateSnippet(id ident.ID, update SnippetUpdate) (_ *models.Snippet, err error) {
	release := sqlitex.Save(s.conn)
	defer release(&err)

	snippet, err := s.GetSnippet(id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		snippet.Name = *update.Name
	}
	if update.Text != nil {
		snippet.Text = *update.Text
	}

	err = sqlitex.Execute(s.conn, `UPDATE snip SET name = ?, data = ? WHERE uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{snippet.Name, snippet.Text, id.String()},
	})
	if err != nil {
		return nil, apperror.Storage("update snippet", err)
	}
	if changed := s.conn.Changes(); changed != 1 {
		err = apperror.Storage("update snippet", fmt.Errorf("expected 1 row affected, got %d", changed))
		return nil, err
	}
	if err = s.indexSnippet(snippet); err != nil {
		return nil, err
	}
	return snippet, nil
}

// DeleteSnippet removes one snippet. Attachments referencing it are kept.
func (s *Store) DeleteSnippet(id ident.ID) (err error) {
	release := sqlitex.Save(s.conn)
	defer release(&err)

	if err = sqlitex.Execute(s.conn, `DELETE FROM snip WHERE uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{id.String()},
	}); err != nil {
		return apperror.Storage("delete snippet", err)
	}
	if changed := s.conn.Changes(); changed != 1 {
		return apperror.Storage("delete snippet", fmt.Errorf("expected 1 row affected, got %d", changed))
	}
	if err = sqlitex.Execute(s.conn, `DELETE FROM snip_term WHERE snip_uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{id.String()},
	}); err != nil {
		return apperror.Storage("delete snippet terms", err)
	}
	return nil
}

// SearchSnippets returns snippets whose text or name contains every
// stemmed term of query, in backend scan order.
func (s *Store) SearchSnippets(query string) ([]models.Snippet, error) {
	terms := tokenize.Terms(query)
	if len(terms) == 0 {
		return []models.Snippet{}, nil
	}

	args := make([]any, 0, len(terms)+1)
	for _, term := range terms {
		args = append(args, term)
	}
	args = append(args, len(terms))

	return s.querySnippets(`
		SELECT `+snippetColumns+` FROM snip
		WHERE uuid IN (
			SELECT snip_uuid FROM snip_term
			WHERE term IN (`+placeholders(len(terms))+`)
			GROUP BY snip_uuid
			HAVING COUNT(DISTINCT term) = ?
		)`, args...)
}

func (s *Store) indexSnippet(snippet *models.Snippet) error {
	return indexTerms(s.conn, snippet.ID.String(), snippet.Name, snippet.Text)
}

// indexTerms replaces the stored search terms of one snippet.
func indexTerms(conn *sqlite.Conn, id, name, text string) error {
	if err := sqlitex.Execute(conn, `DELETE FROM snip_term WHERE snip_uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{id},
	}); err != nil {
		return apperror.Storage("clear snippet terms", err)
	}
	for _, term := range tokenize.Terms(name + "\n" + text) {
		if err := sqlitex.Execute(conn, `INSERT OR IGNORE INTO snip_term (term, snip_uuid) VALUES (?, ?)`, &sqlitex.ExecOptions{
			Args: []any{term, id},
		}); err != nil {
			return apperror.Storage("index snippet term", err)
		}
	}
	return nil
}

// reindexAllSnippets rebuilds the term index for every stored snippet.
func reindexAllSnippets(conn *sqlite.Conn) error {
	type row struct{ id, name, text string }
	var rows []row
	err := sqlitex.Execute(conn, `SELECT uuid, name, data FROM snip`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, row{stmt.ColumnText(0), stmt.ColumnText(1), stmt.ColumnText(2)})
			return nil
		},
	})
	if err != nil {
		return apperror.Storage("scan snippets for reindex", err)
	}
	for _, r := range rows {
		if err := indexTerms(conn, r.id, r.name, r.text); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) querySnippets(query string, args ...any) ([]models.Snippet, error) {
	snippets := []models.Snippet{}
	err := sqlitex.Execute(s.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			snippet, err := scanSnippet(stmt)
			if err != nil {
				return err
			}
			snippets = append(snippets, snippet)
			return nil
		},
	})
	if err != nil {
		return nil, storageErr("query snippets", err)
	}
	return snippets, nil
}

func scanSnippet(stmt *sqlite.Stmt) (models.Snippet, error) {
	id, err := columnID(stmt, 0)
	if err != nil {
		return models.Snippet{}, err
	}
	return models.Snippet{
		ID:        id,
		Name:      stmt.ColumnText(1),
		CreatedAt: mustParseTime(stmt.ColumnText(2)),
		Text:      stmt.ColumnText(3),
	}, nil
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimRight(strings.Repeat("?,", count), ",")
}
