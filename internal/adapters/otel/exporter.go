package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
	"github.com/emiliopalmerini/billheat/internal/ports"
)

const (
	serviceName    = "billheat"
	serviceVersion = "1.0.0"
)

// Exporter exports page and theme metrics to an OTEL Collector.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	rendersTotal metric.Int64Counter
	renderErrors metric.Int64Counter
	durationHist metric.Float64Histogram
	togglesTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg config.Telemetry) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	rendersTotal, err := meter.Int64Counter(
		"billheat_page_renders_total",
		metric.WithDescription("Total rendered pages"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating renders counter: %w", err)
	}

	renderErrors, err := meter.Int64Counter(
		"billheat_page_render_errors_total",
		metric.WithDescription("Pages that failed to render"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating render errors counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"billheat_page_render_duration_seconds",
		metric.WithDescription("Page render duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	togglesTotal, err := meter.Int64Counter(
		"billheat_theme_toggles_total",
		metric.WithDescription("Total theme toggles"),
		metric.WithUnit("{toggle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating toggles counter: %w", err)
	}

	return &Exporter{
		provider:     provider,
		rendersTotal: rendersTotal,
		renderErrors: renderErrors,
		durationHist: durationHist,
		togglesTotal: togglesTotal,
	}, nil
}

// RecordPageRender records one page render and its duration.
func (e *Exporter) RecordPageRender(ctx context.Context, page string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("page", page))

	e.rendersTotal.Add(ctx, 1, opt)
	e.durationHist.Record(ctx, duration.Seconds(), opt)
	if err != nil {
		e.renderErrors.Add(ctx, 1, opt)
	}
}

// RecordThemeToggle records a toggle and the resulting mode.
func (e *Exporter) RecordThemeToggle(ctx context.Context, dark bool) {
	mode := "light"
	if dark {
		mode = "dark"
	}
	e.togglesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}

// New returns an OTLP exporter when telemetry is enabled, or a no-op
// exporter otherwise.
func New(ctx context.Context, cfg config.Telemetry) (ports.MetricsExporter, error) {
	if !cfg.Enabled {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}
