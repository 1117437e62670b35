// Package testinfra provides shared fixtures for package tests.
package testinfra

import (
	"path/filepath"
	"testing"

	"go-cms-sdk/internal/config"
	"go-cms-sdk/internal/data"

	"github.com/jmoiron/sqlx"
)

// NewSQLiteDB opens a fresh migrated SQLite database in the test's temp dir.
// Each test gets its own file for complete isolation.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cms.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := data.ApplyMigrations(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}
