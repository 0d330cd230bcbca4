package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	countUpserts      metric.Int64Counter
	shortagesCreated  metric.Int64Counter
	shortagesResolved metric.Int64Counter
	entriesCompleted  metric.Int64Counter
	daysFinalized     metric.Int64Counter
	historyUpserts    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "stockdiario"
	}
	meter := provider.Meter(name)

	countUpserts, err := meter.Int64Counter("stockdiario_count_upserts_total")
	if err != nil {
		return nil, err
	}
	shortagesCreated, err := meter.Int64Counter("stockdiario_shortages_created_total")
	if err != nil {
		return nil, err
	}
	shortagesResolved, err := meter.Int64Counter("stockdiario_shortages_resolved_total")
	if err != nil {
		return nil, err
	}
	entriesCompleted, err := meter.Int64Counter("stockdiario_final_entries_completed_total")
	if err != nil {
		return nil, err
	}
	daysFinalized, err := meter.Int64Counter("stockdiario_days_finalized_total")
	if err != nil {
		return nil, err
	}
	historyUpserts, err := meter.Int64Counter("stockdiario_history_upserts_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		countUpserts:      countUpserts,
		shortagesCreated:  shortagesCreated,
		shortagesResolved: shortagesResolved,
		entriesCompleted:  entriesCompleted,
		daysFinalized:     daysFinalized,
		historyUpserts:    historyUpserts,
	}, nil
}

// RecordCountUpsert increments count entry writes by phase.
func (m *Metrics) RecordCountUpsert(ctx context.Context, phase string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("phase", strings.TrimSpace(phase)))
	m.countUpserts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordShortagesCreated adds newly created automatic shortage records.
func (m *Metrics) RecordShortagesCreated(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.shortagesCreated.Add(ctx, int64(count))
}

// RecordShortagesResolved adds retired automatic shortage records.
func (m *Metrics) RecordShortagesResolved(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.shortagesResolved.Add(ctx, int64(count))
}

// RecordEntriesCompleted adds final entries synthesized from the initial count.
func (m *Metrics) RecordEntriesCompleted(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.entriesCompleted.Add(ctx, int64(count))
}

// RecordDayFinalized increments finalization outcomes.
func (m *Metrics) RecordDayFinalized(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.daysFinalized.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordHistoryUpsert increments day record writes.
func (m *Metrics) RecordHistoryUpsert(ctx context.Context, overwrite bool) {
	if m == nil {
		return
	}
	result := "created"
	if overwrite {
		result = "overwritten"
	}
	attrs := FilterAttributes(attribute.String("result", result))
	m.historyUpserts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"phase":       {},
	"result":      {},
	"job":         {},
	"reason":      {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
