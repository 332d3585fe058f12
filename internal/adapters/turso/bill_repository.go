package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Save replaces the bill stored for bill.Month, keeping its id.
func (r *BillRepository) Save(ctx context.Context, bill *domain.Bill) error {
	month := domain.FormatMonth(bill.Month)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM bills WHERE month = ?`, month).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("failed to look up bill: %w", err)
	}

	id := bill.ID
	if existingID != "" {
		id = existingID
	}
	if id == "" {
		id = uuid.NewString()
	}

	if existingID != "" {
		for _, stmt := range []string{
			`DELETE FROM bill_subscribers WHERE bill_id = ?`,
			`DELETE FROM bill_charges WHERE bill_id = ?`,
			`DELETE FROM bills WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, existingID); err != nil {
				return fmt.Errorf("failed to replace bill: %w", err)
			}
		}
	}

	createdAt := bill.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bills (id, month, created_at) VALUES (?, ?, ?)`,
		id, month, createdAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, s := range bill.Subscribers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bill_subscribers
				(bill_id, position, name, number, phone, line, insurance, usage, minutes, messages, data, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, s.Name, s.Number,
			s.Phone.String(), s.Line.String(), s.Insurance.String(), s.Usage.String(),
			s.Minutes, s.Messages, s.Data.String(), s.Total.String(),
		); err != nil {
			return fmt.Errorf("failed to insert subscriber %q: %w", s.Name, err)
		}
	}

	for i, c := range bill.Charges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_charges (bill_id, position, name, total, split) VALUES (?, ?, ?, ?, ?)`,
			id, i, c.Name, c.Total.String(), boolToInt(c.Split),
		); err != nil {
			return fmt.Errorf("failed to insert charge %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill: %w", err)
	}

	bill.ID = id
	bill.CreatedAt = createdAt
	return nil
}

func (r *BillRepository) Get(ctx context.Context, month time.Time) (*domain.Bill, error) {
	return r.getWhere(ctx, `WHERE month = ?`, domain.FormatMonth(month))
}

func (r *BillRepository) Latest(ctx context.Context) (*domain.Bill, error) {
	return r.getWhere(ctx, `ORDER BY month DESC LIMIT 1`)
}

func (r *BillRepository) getWhere(ctx context.Context, clause string, args ...any) (*domain.Bill, error) {
	var bill domain.Bill
	var month, createdAt string

	err := r.db.QueryRowContext(ctx, `SELECT id, month, created_at FROM bills `+clause, args...).
		Scan(&bill.ID, &month, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.Month, err = domain.ParseMonth(month); err != nil {
		return nil, err
	}
	bill.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if bill.Subscribers, err = r.subscribers(ctx, bill.ID); err != nil {
		return nil, err
	}
	if bill.Charges, err = r.charges(ctx, bill.ID); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *BillRepository) subscribers(ctx context.Context, billID string) ([]domain.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, number, phone, line, insurance, usage, minutes, messages, data, total
		FROM bill_subscribers
		WHERE bill_id = ?
		ORDER BY position
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.Name, &s.Number, &s.Phone, &s.Line, &s.Insurance, &s.Usage,
			&s.Minutes, &s.Messages, &s.Data, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, rows.Err()
}

func (r *BillRepository) charges(ctx context.Context, billID string) ([]domain.Charge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, total, split
		FROM bill_charges
		WHERE bill_id = ?
		ORDER BY position
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}
	defer rows.Close()

	var charges []domain.Charge
	for rows.Next() {
		var c domain.Charge
		var split int64
		if err := rows.Scan(&c.Name, &c.Total, &split); err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}
		c.Split = split == 1
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

func (r *BillRepository) ListMonths(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month FROM bills ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	defer rows.Close()

	var months []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan month: %w", err)
		}
		m, err := domain.ParseMonth(s)
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func (r *BillRepository) Delete(ctx context.Context, month time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m := domain.FormatMonth(month)
	for _, stmt := range []string{
		`DELETE FROM bill_subscribers WHERE bill_id IN (SELECT id FROM bills WHERE month = ?)`,
		`DELETE FROM bill_charges WHERE bill_id IN (SELECT id FROM bills WHERE month = ?)`,
		`DELETE FROM bills WHERE month = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, m); err != nil {
			return fmt.Errorf("failed to delete bill: %w", err)
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
