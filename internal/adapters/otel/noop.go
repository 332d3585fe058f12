package otel

import (
	"context"
	"time"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordPageRender(ctx context.Context, page string, duration time.Duration, err error) {
}

func (e *NoOpExporter) RecordThemeToggle(ctx context.Context, dark bool) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
