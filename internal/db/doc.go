// Package db contains the data-access layer and small DI helpers used by
// Mensad.
//
// This package exposes the Store interface plus package-level helpers that
// make it easy to inject fakes for tests while preserving a centralized
// Bun-based implementation for production.
//
// Layout
//   - `store.go` declares the Store interface; `sqlite.go`, `postgres.go` and
//     `mysql.go` hold the per-backend implementations. All three delegate to
//     the portable Bun helpers in `bun_adapter.go`, so query logic lives in
//     exactly one place.
//   - `db.go` owns connection setup, pooling, embedded migrations and
//     maintenance. Callers normally use `InitDB` once and then the
//     package-level wrappers (`GetMealPlan`, `UpsertMealPlan`, ...).
//   - `namefilter` compiles meal-name filter expressions (`rind & !wok`)
//     into Bun query builders.
//
// DI helpers
//   - `DefaultMealSearcher()` returns a searcher backed by the package-level
//     `store` when initialized, or nil. Callers handle nil by falling back to
//     local filtering via `FilterMealsByTokens`.
//   - Tests inject `FakeMealSearcher` instead of standing up a database.
//
// Testing notes
//   - Prefer `db.InitDB("sqlite", ":memory:")` in tests that need real DB
//     semantics and migrations.
//   - Shared in-memory DSNs (`file:name?mode=memory&cache=shared`) keep a
//     per-test database alive across connections.
package db
