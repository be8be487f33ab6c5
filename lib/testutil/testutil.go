package testutil

import (
	"database/sql"
	"netbank/lib/sqliteutil"
	"path/filepath"
	"testing"
)

// OpenDB opens a fresh sqlite database with `schema` applied in the test's
// temp dir, it is closed when the test finishes.
func OpenDB(t testing.TB, schema string) *sql.DB {
	t.Helper()

	db, err := sqliteutil.OpenDB(schema, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
