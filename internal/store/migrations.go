package store

import (
	"fmt"
	"log/slog"
	"sort"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Migration represents a schema migration step.
type Migration struct {
	Version     int
	Description string
	SQL         string
	// Backfill runs after SQL inside the same savepoint.
	Backfill func(conn *sqlite.Conn) error
}

// MigrationStatus reports the current and available migration versions.
type MigrationStatus struct {
	CurrentVersion   int             `json:"current_version"`
	AvailableVersion int             `json:"available_version"`
	Pending          []MigrationInfo `json:"pending"`
}

// MigrationInfo describes a single migration.
type MigrationInfo struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
}

// migrations is the ordered list of all schema migrations. Version 1 is
// the layout written by the original snip tool and must stay compatible
// with existing database files.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema: snip and snip_attachment tables",
		SQL: `
CREATE TABLE IF NOT EXISTS snip (
  uuid TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snip_attachment (
  uuid TEXT NOT NULL UNIQUE,
  snip_uuid TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  name TEXT NOT NULL,
  data BLOB NOT NULL,
  size INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "stemmed term index for snippet search",
		SQL: `
CREATE TABLE IF NOT EXISTS snip_term (
  term TEXT NOT NULL,
  snip_uuid TEXT NOT NULL,
  UNIQUE(term, snip_uuid)
);

CREATE INDEX IF NOT EXISTS idx_snip_term_snip_uuid ON snip_term(snip_uuid);
CREATE INDEX IF NOT EXISTS idx_snip_attachment_snip_uuid ON snip_attachment(snip_uuid);
`,
		Backfill: reindexAllSnippets,
	},
}

const migrationsTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at TEXT NOT NULL
);
`

func ensureMigrationsTable(conn *sqlite.Conn) error {
	return sqlitex.ExecuteScript(conn, migrationsTableSQL, nil)
}

// currentVersion returns the highest applied migration version, or 0 if none.
func currentVersion(conn *sqlite.Conn) (int, error) {
	var version int
	err := sqlitex.Execute(conn, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnInt(0)
			return nil
		},
	})
	return version, err
}

func tableExists(conn *sqlite.Conn, name string) (bool, error) {
	var count int
	err := sqlitex.Execute(conn, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt(0)
			return nil
		},
	})
	return count > 0, err
}

// detectPreMigrationDB reports a database that already carries the full
// version 1 layout but has no migration recorded. Older files that only
// have the snip table are left at version 0 so version 1 fills in the
// attachment table.
func detectPreMigrationDB(conn *sqlite.Conn) (bool, error) {
	for _, table := range []string{"snip", attachmentTable} {
		exists, err := tableExists(conn, table)
		if err != nil || !exists {
			return false, err
		}
	}

	migrationsExist, err := tableExists(conn, "schema_migrations")
	if err != nil {
		return false, err
	}
	if !migrationsExist {
		return true, nil
	}

	current, err := currentVersion(conn)
	if err != nil {
		return false, err
	}
	return current == 0, nil
}

func sortedMigrations() []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return sorted
}

// runMigrations applies all pending migrations in order.
func runMigrations(conn *sqlite.Conn, logger *slog.Logger) error {
	preMigration, err := detectPreMigrationDB(conn)
	if err != nil {
		return fmt.Errorf("detect pre-migration db: %w", err)
	}

	if err := ensureMigrationsTable(conn); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	if preMigration {
		// Both version 1 tables exist without a recorded version.
		if err := sqlitex.Execute(conn, "INSERT OR IGNORE INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))", &sqlitex.ExecOptions{
			Args: []any{1},
		}); err != nil {
			return fmt.Errorf("stamp pre-migration db: %w", err)
		}
		logger.Debug("stamped existing database", "version", 1)
	}

	current, err := currentVersion(conn)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, m := range sortedMigrations() {
		if m.Version <= current {
			continue
		}
		if err := applyMigration(conn, m); err != nil {
			return err
		}
		logger.Debug("migration applied", "version", m.Version, "description", m.Description)
	}

	return nil
}

func applyMigration(conn *sqlite.Conn, m Migration) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	if err = sqlitex.ExecuteScript(conn, m.SQL, nil); err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
	}
	if m.Backfill != nil {
		if err = m.Backfill(conn); err != nil {
			return fmt.Errorf("backfill migration %d: %w", m.Version, err)
		}
	}
	if err = sqlitex.Execute(conn, "INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))", &sqlitex.ExecOptions{
		Args: []any{m.Version},
	}); err != nil {
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}
	return nil
}

// MigrationPlan returns the current migration status without applying anything.
func MigrationPlan(conn *sqlite.Conn) (*MigrationStatus, error) {
	preMigration, err := detectPreMigrationDB(conn)
	if err != nil {
		return nil, err
	}

	if err := ensureMigrationsTable(conn); err != nil {
		return nil, err
	}

	current, err := currentVersion(conn)
	if err != nil {
		return nil, err
	}

	effective := current
	if preMigration && effective == 0 {
		effective = 1
	}

	sorted := sortedMigrations()
	available := 0
	if len(sorted) > 0 {
		available = sorted[len(sorted)-1].Version
	}

	var pending []MigrationInfo
	for _, m := range sorted {
		if m.Version > effective {
			pending = append(pending, MigrationInfo{Version: m.Version, Description: m.Description})
		}
	}

	return &MigrationStatus{
		CurrentVersion:   effective,
		AvailableVersion: available,
		Pending:          pending,
	}, nil
}
