package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

// BillRepository stores monthly bills. Get and Latest return nil, nil when
// nothing matches.
type BillRepository interface {
	Save(ctx context.Context, bill *domain.Bill) error
	Get(ctx context.Context, month time.Time) (*domain.Bill, error)
	Latest(ctx context.Context) (*domain.Bill, error)
	ListMonths(ctx context.Context) ([]time.Time, error)
	Delete(ctx context.Context, month time.Time) error
}
