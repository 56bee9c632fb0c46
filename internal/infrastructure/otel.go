package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"logisticsprep/internal/config"
)

const (
	ServiceName = "logistics-preprocessor"
	MeterName   = "logisticsprep"
)

// Telemetry bundles the tracer and the pipeline metrics of one run
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *PipelineMetrics

	tracerProvider *sdktrace.TracerProvider
	logger         *slog.Logger
}

// NewTelemetry sets up tracing and metrics. Nothing is registered globally;
// callers pass the returned Telemetry down explicitly. traceOut receives
// spans when the stdout exporter is selected.
func NewTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)

	t := &Telemetry{logger: logger}

	switch cfg.TraceExporter {
	case "stdout":
		if traceOut == nil {
			traceOut = os.Stdout
		}
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(traceOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	metrics, err := NewPipelineMetrics(res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	t.Metrics = metrics

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// Shutdown flushes pending spans and stops the metric pipeline
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.Metrics != nil {
		if err := t.Metrics.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PipelineMetrics records per-stage row counts, coerced values and
// durations. Metrics are collected into a private Prometheus registry and
// can be dumped in text exposition format; nothing is served over HTTP.
type PipelineMetrics struct {
	registry      *prometheus.Registry
	provider      *sdkmetric.MeterProvider
	rowsProcessed metric.Int64Counter
	coerced       metric.Int64Counter
	stageDuration metric.Float64Histogram
	stageFailures metric.Int64Counter
	runtime       *runtimeMetrics
}

// NewPipelineMetrics creates the meter provider backed by a new registry
func NewPipelineMetrics(res *resource.Resource) (*PipelineMetrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	m := &PipelineMetrics{registry: registry, provider: provider}

	if m.rowsProcessed, err = meter.Int64Counter(
		"pipeline_rows",
		metric.WithDescription("Rows produced per pipeline stage and table"),
	); err != nil {
		return nil, err
	}

	if m.coerced, err = meter.Int64Counter(
		"pipeline_coerced_values",
		metric.WithDescription("Values that could not be parsed and were replaced by a missing value"),
	); err != nil {
		return nil, err
	}

	if m.stageDuration, err = meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.stageFailures, err = meter.Int64Counter(
		"pipeline_stage_failures",
		metric.WithDescription("Pipeline stages that aborted the run"),
	); err != nil {
		return nil, err
	}

	if m.runtime, err = newRuntimeMetrics(meter); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRows adds the row count a stage produced for a table
func (m *PipelineMetrics) RecordRows(ctx context.Context, stage, table string, rows int) {
	m.rowsProcessed.Add(ctx, int64(rows), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("table", table),
	))
}

// RecordCoercions adds the number of values of a column that degraded to missing
func (m *PipelineMetrics) RecordCoercions(ctx context.Context, table, column string, count int) {
	if count == 0 {
		return
	}
	m.coerced.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("column", column),
	))
}

// ObserveStage records how long a stage ran
func (m *PipelineMetrics) ObserveStage(ctx context.Context, stage string, d time.Duration) {
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordFailure counts a stage that aborted the run
func (m *PipelineMetrics) RecordFailure(ctx context.Context, stage string) {
	m.stageFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRuntime samples heap and goroutine gauges, labelled with the stage
// that just finished
func (m *PipelineMetrics) RecordRuntime(ctx context.Context, stage string) RuntimeStats {
	return m.runtime.record(ctx, stage)
}

// Registry exposes the underlying registry, mainly for tests
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps all collected metrics to path in Prometheus text format
func (m *PipelineMetrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown stops the meter provider
func (m *PipelineMetrics) Shutdown(ctx context.Context) error {
	if err := m.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}
