package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestCreateBunDB_DialectSelection(t *testing.T) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	cases := []struct {
		dbType  string
		dialect string
	}{
		{"sqlite", "sqlite"},
		{"postgres", "pg"},
		{"mysql", "mysql"},
		// Unknown types fall back to the SQLite dialect.
		{"unknown", "sqlite"},
	}
	for _, c := range cases {
		b := createBunDB(sqlDB, c.dbType)
		if b == nil {
			t.Fatalf("createBunDB returned nil for type %s", c.dbType)
		}
		if got := b.Dialect().Name().String(); got != c.dialect {
			t.Errorf("createBunDB(%s) selected dialect %s, want %s", c.dbType, got, c.dialect)
		}
	}
}
