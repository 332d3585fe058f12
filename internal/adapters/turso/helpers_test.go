package turso_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func month(t *testing.T, s string) time.Time {
	t.Helper()
	m, err := domain.ParseMonth(s)
	if err != nil {
		t.Fatalf("ParseMonth(%q) error = %v", s, err)
	}
	return m
}

func testBill(t *testing.T, m string) *domain.Bill {
	t.Helper()
	return &domain.Bill{
		Month: month(t, m),
		Subscribers: []domain.Subscriber{
			{
				Name: "Ada Lovelace", Number: "555-0100",
				Phone: decimal.RequireFromString("25.00"), Line: decimal.RequireFromString("20.00"),
				Insurance: decimal.RequireFromString("7.50"), Usage: decimal.RequireFromString("1.25"),
				Minutes: 320, Messages: 1200, Data: decimal.RequireFromString("4.2"),
				Total: decimal.RequireFromString("53.75"),
			},
			{
				Name: "Alan Turing", Number: "555-0101",
				Phone: decimal.Zero, Line: decimal.RequireFromString("20.00"),
				Insurance: decimal.Zero, Usage: decimal.Zero,
				Minutes: 45, Messages: 80, Data: decimal.RequireFromString("0.8"),
				Total: decimal.RequireFromString("20.00"),
			},
		},
		Charges: []domain.Charge{
			{Name: "Taxes", Total: decimal.RequireFromString("6.10"), Split: true},
			{Name: "Autopay Discount", Total: decimal.RequireFromString("-10.00"), Split: true},
		},
	}
}
