package store

import (
	"path/filepath"
	"testing"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func testRawConn(t *testing.T) *sqlite.Conn {
	t.Helper()
	conn, err := OpenConn(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// createLegacySchema lays out the tables the way pre-versioned databases
// have them.
func createLegacySchema(t *testing.T, conn *sqlite.Conn) {
	t.Helper()
	err := sqlitex.ExecuteScript(conn, `
CREATE TABLE snip (uuid TEXT NOT NULL UNIQUE, name TEXT NOT NULL, timestamp TEXT NOT NULL, data TEXT NOT NULL);
CREATE TABLE snip_attachment (uuid TEXT NOT NULL UNIQUE, snip_uuid TEXT NOT NULL, timestamp TEXT NOT NULL, name TEXT NOT NULL, data BLOB NOT NULL, size INTEGER NOT NULL);
INSERT INTO snip VALUES ('9cfc5a2d-2946-48ee-82e0-227ba4bcdbd5', 'legacy', '2021-03-04T05:06:07.000000008Z', 'old rows stay readable');
`, nil)
	if err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}
}

func TestRunMigrationsFreshDB(t *testing.T) {
	conn := testRawConn(t)

	if err := runMigrations(conn, discardLogger); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	version, err := currentVersion(conn)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2, got %d", version)
	}

	for _, table := range []string{"snip", "snip_attachment", "snip_term"} {
		ok, err := tableExists(conn, table)
		if err != nil {
			t.Fatalf("check %s: %v", table, err)
		}
		if !ok {
			t.Fatalf("%s table not created", table)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	conn := testRawConn(t)

	if err := runMigrations(conn, discardLogger); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runMigrations(conn, discardLogger); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := countRows(t, conn, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", got)
	}
}

func TestDetectPreMigrationDB(t *testing.T) {
	conn := testRawConn(t)

	pre, err := detectPreMigrationDB(conn)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if pre {
		t.Fatal("empty DB should not be pre-migration")
	}

	createLegacySchema(t, conn)

	pre, err = detectPreMigrationDB(conn)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !pre {
		t.Fatal("expected legacy DB to be detected as pre-migration")
	}
}

func TestRunMigrationsStampsLegacyDB(t *testing.T) {
	conn := testRawConn(t)
	createLegacySchema(t, conn)

	if err := runMigrations(conn, discardLogger); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	version, err := currentVersion(conn)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2, got %d", version)
	}
	if got := countRows(t, conn, "SELECT COUNT(*) FROM snip"); got != 1 {
		t.Fatalf("expected legacy row to survive, got %d rows", got)
	}
}

func TestLegacyRowsReadableThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	conn, err := OpenConn(path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	createLegacySchema(t, conn)
	conn.Close()

	st, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	first, err := st.GetFirstSnippet()
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if first.Name != "legacy" {
		t.Fatalf("unexpected name %q", first.Name)
	}
	if first.CreatedAt.Nanosecond() != 8 {
		t.Fatalf("expected nanosecond precision, got %v", first.CreatedAt)
	}

	found, err := st.SearchSnippets("readable rows")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != first.ID {
		t.Fatalf("expected legacy snippet to be indexed, got %+v", found)
	}
}

// Files from before attachments existed only have the snip table, and
// their timestamps carry a +00:00 offset rather than Z.
func TestSnipOnlyLegacyDBOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snip-only.db")
	conn, err := OpenConn(path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	err = sqlitex.ExecuteScript(conn, `
CREATE TABLE snip (uuid TEXT NOT NULL UNIQUE, name TEXT NOT NULL, timestamp TEXT NOT NULL, data TEXT NOT NULL);
INSERT INTO snip VALUES ('9cfc5a2d-2946-48ee-82e0-227ba4bcdbd5', 'old', '2020-01-02T03:04:05.123456789+00:00', 'written before attachments');
`, nil)
	if err != nil {
		t.Fatalf("create snip-only schema: %v", err)
	}

	pre, err := detectPreMigrationDB(conn)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if pre {
		t.Fatal("snip-only DB must not be stamped as version 1")
	}
	plan, err := MigrationPlan(conn)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.CurrentVersion != 0 || len(plan.Pending) != 2 {
		t.Fatalf("expected both migrations pending, got %+v", plan)
	}
	conn.Close()

	st, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ok, err := tableExists(st.Conn(), attachmentTable)
	if err != nil || !ok {
		t.Fatalf("expected attachment table after open (err: %v)", err)
	}

	snippet, err := st.GetFirstSnippet()
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	want := time.Date(2020, 1, 2, 3, 4, 5, 123456789, time.UTC)
	if !snippet.CreatedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, snippet.CreatedAt)
	}
	if _, offset := snippet.CreatedAt.Zone(); offset != 0 {
		t.Fatalf("expected zero offset, got %d", offset)
	}

	found, err := st.SearchSnippets("attachment")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != snippet.ID {
		t.Fatalf("expected old snippet to be indexed, got %+v", found)
	}

	infos, err := st.ListAttachments(snippet.ID)
	if err != nil {
		t.Fatalf("list attachments: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected no attachments, got %+v", infos)
	}
}

func TestMigrationPlan(t *testing.T) {
	conn := testRawConn(t)

	plan, err := MigrationPlan(conn)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.CurrentVersion != 0 || plan.AvailableVersion != 2 {
		t.Fatalf("unexpected plan versions: %+v", plan)
	}
	if len(plan.Pending) != 2 {
		t.Fatalf("expected 2 pending migrations, got %d", len(plan.Pending))
	}

	if err := runMigrations(conn, discardLogger); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	plan, err = MigrationPlan(conn)
	if err != nil {
		t.Fatalf("plan after run: %v", err)
	}
	if plan.CurrentVersion != 2 || len(plan.Pending) != 0 {
		t.Fatalf("expected up-to-date plan, got %+v", plan)
	}
}

func TestMigrationPlanLegacyDB(t *testing.T) {
	conn := testRawConn(t)
	createLegacySchema(t, conn)

	plan, err := MigrationPlan(conn)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.CurrentVersion != 1 {
		t.Fatalf("expected legacy DB to report version 1, got %d", plan.CurrentVersion)
	}
	if len(plan.Pending) != 1 || plan.Pending[0].Version != 2 {
		t.Fatalf("expected only version 2 pending, got %+v", plan.Pending)
	}
}
