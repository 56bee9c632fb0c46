package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"logisticsprep/internal/infrastructure"
	"logisticsprep/pkg/contracts/domain"
)

// stageTracer provides OpenTelemetry instrumentation for pipeline stages
type stageTracer struct {
	telemetry *infrastructure.Telemetry
}

// traceRun creates the span covering a whole run
func (st stageTracer) traceRun(ctx context.Context, traceID, outputDir string) (context.Context, trace.Span) {
	return st.telemetry.Tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.trace_id", traceID),
			attribute.String("run.output_dir", outputDir),
		),
	)
}

// traceStage creates a span for one stage
func (st stageTracer) traceStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	return st.telemetry.Tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("stage.id", stage)),
	)
}

// recordStage closes out a stage span and records its duration, and its
// failure when err is set
func (st stageTracer) recordStage(ctx context.Context, span trace.Span, stage string, d time.Duration, err error) {
	span.SetAttributes(attribute.Float64("stage.duration_seconds", d.Seconds()))
	st.telemetry.Metrics.ObserveStage(ctx, stage, d)
	st.telemetry.Metrics.RecordRuntime(ctx, stage)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("%s stage failed", stage))
		st.telemetry.Metrics.RecordFailure(ctx, stage)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// recordTables records the row count of each table a stage produced
func (st stageTracer) recordTables(ctx context.Context, stage string, tables ...domain.NamedTable) {
	span := trace.SpanFromContext(ctx)
	for _, nt := range tables {
		if nt.Table == nil {
			continue
		}
		st.telemetry.Metrics.RecordRows(ctx, stage, nt.Name, nt.Table.Len())
		span.SetAttributes(attribute.Int("rows."+nt.Name, nt.Table.Len()))
	}
}
