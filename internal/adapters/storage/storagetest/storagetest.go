// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"fitclub/internal/adapters/storage"
)

// Open returns a fresh migrated in-memory database closed at test cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// InsertAccount adds a bare account row so member rows can reference it.
func InsertAccount(t *testing.T, db *sql.DB, id, username string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO account (id, username, email, password_hash, created_at) VALUES (?, ?, ?, 'x', '2024-01-01T00:00:00Z')",
		id, username, username+"@example.com",
	)
	if err != nil {
		t.Fatalf("insert account %s: %v", id, err)
	}
}
