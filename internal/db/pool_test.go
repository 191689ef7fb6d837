// Copyright (c) 2026 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
)

// TestDBPoolDefaultsSQLite verifies that NewStoreFromDSN sets a sensible
// default for MaxOpenConns for SQLite. We assert the default value is applied
// and that the returned Store is the SQLite concrete type.
func TestDBPoolDefaultsSQLite(t *testing.T) {
	// Ensure CI env overrides do not change the expectation for this unit test.
	t.Setenv("MENSAD_DB_MAX_OPEN_CONNS", "")
	t.Setenv("MENSAD_DB_MAX_IDLE_CONNS", "")

	dsn := "file::memory:?cache=shared"
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN returned error: %v", err)
	}
	ss, ok := s.(*SqliteStore)
	if !ok {
		t.Fatalf("expected *SqliteStore, got %T", s)
	}
	// The default in NewStoreFromDSN is 25. Check that the sql.DB Stats reflects that.
	stats := ss.BunDB().DB.Stats()
	want := 25
	if stats.MaxOpenConnections != want {
		t.Fatalf("MaxOpenConnections = %d; want %d", stats.MaxOpenConnections, want)
	}
	_ = ss.BunDB().DB.Close()
}

// In-memory SQLite keeps one connection so the database is not recreated per
// connection.
func TestDBPoolMemorySQLiteSingleConn(t *testing.T) {
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN returned error: %v", err)
	}
	ss := s.(*SqliteStore)
	stats := ss.BunDB().DB.Stats()
	if stats.MaxOpenConnections != 1 {
		t.Fatalf("MaxOpenConnections for :memory: = %d; want 1", stats.MaxOpenConnections)
	}
	_ = ss.BunDB().DB.Close()
}

func TestDBPoolEnvOverride(t *testing.T) {
	t.Setenv("MENSAD_DB_MAX_OPEN_CONNS", "7")

	s, err := NewStoreFromDSN("sqlite", "file:pool_override?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN returned error: %v", err)
	}
	ss := s.(*SqliteStore)
	stats := ss.BunDB().DB.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("MaxOpenConnections = %d; want 7 from env override", stats.MaxOpenConnections)
	}
	_ = ss.BunDB().DB.Close()
}
