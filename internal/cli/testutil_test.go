package cli

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/billheat/internal/adapters/turso"
	"github.com/emiliopalmerini/billheat/internal/migrate"
)

// testRepos opens an in-memory database with all migrations applied.
func testRepos(t *testing.T) *turso.Repositories {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate.RunAll(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return turso.NewRepositories(db)
}
