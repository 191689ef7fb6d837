package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunMigrationsSqlite(t *testing.T) {
	dsn := "file:test_migrations?mode=memory&cache=shared"
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	rows, err := dbConn.Query("SELECT version FROM schema_migrations")
	if err != nil {
		t.Fatalf("query schema_migrations failed: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan version failed: %v", err)
		}
		versions = append(versions, v)
	}

	if len(versions) < 1 {
		t.Fatalf("expected at least 1 migration applied, got %d", len(versions))
	}

	want := map[string]bool{
		"0001_init": true,
	}
	for _, v := range versions {
		if _, ok := want[v]; ok {
			delete(want, v)
		}
	}
	if len(want) != 0 {
		t.Fatalf("missing expected migrations: %v", want)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dsn := "file:test_migrations_idem?mode=memory&cache=shared"
	dbConn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("first RunMigrations failed: %v", err)
	}
	// Second run must skip already-applied versions without error.
	if err := RunMigrations(dbConn, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}

	var n int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = '0001_init'").Scan(&n); err != nil {
		t.Fatalf("count schema_migrations failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected migration recorded exactly once, got %d rows", n)
	}
}

func TestRunDBMaintenanceSqlite_Smoke(t *testing.T) {
	dsn := "file:test_maint?mode=memory&cache=shared"
	if err := RunDBMaintenance("sqlite", dsn); err != nil {
		t.Fatalf("RunDBMaintenance failed: %v", err)
	}
}
