package ports

import (
	"context"
	"time"
)

// MetricsExporter records page and theme activity.
type MetricsExporter interface {
	RecordPageRender(ctx context.Context, page string, duration time.Duration, err error)
	RecordThemeToggle(ctx context.Context, dark bool)
	Close(ctx context.Context) error
}
