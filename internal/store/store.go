package store

import (
	"fmt"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	busyTimeoutMS = 5000

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"
)

// Store owns one exclusive SQLite connection. It is not safe for
// concurrent use.
type Store struct {
	conn   *sqlite.Conn
	path   string
	logger *slog.Logger
}

// Open opens the SQLite database at path and bootstraps the schema. A nil
// logger discards store events.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	conn, err := OpenConn(path)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(conn, logger); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("store opened", "path", path)
	return &Store{conn: conn, path: path, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		s.logger.Error("store close failed", "path", s.path, "error", err)
		return err
	}
	s.logger.Debug("store closed", "path", s.path)
	return nil
}

// Conn exposes the raw connection for maintenance commands.
func (s *Store) Conn() *sqlite.Conn {
	return s.conn
}

// OpenConn opens and configures a connection without running migrations.
func OpenConn(path string) (*sqlite.Conn, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := configureConn(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func configureConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = OFF;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, stmt, nil); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}
