package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"logisticsprep/internal/config"
	"logisticsprep/internal/dataprocessing"
	"logisticsprep/internal/exporter"
	"logisticsprep/internal/infrastructure"
	"logisticsprep/internal/validation"
	"logisticsprep/pkg/contracts/domain"
)

// Pipeline runs load, clean, join, aggregate, validate and export over one
// set of inputs
type Pipeline struct {
	loader        *dataprocessing.Loader
	cleaner       *dataprocessing.Cleaner
	joiner        *dataprocessing.Joiner
	aggregator    *dataprocessing.Aggregator
	quality       *validation.QualityValidator
	fileValidator *validation.FileValidator
	exporter      *exporter.Exporter

	exportCfg config.ExportConfig
	tracer    stageTracer
	report    io.Writer
	logger    *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithReportWriter sets where the human readable quality report is printed.
// Without it the report is only logged.
func WithReportWriter(w io.Writer) Option {
	return func(p *Pipeline) {
		p.report = w
	}
}

// WithLogger sets the logger used by the pipeline and all its components
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a pipeline. A nil telemetry disables tracing and keeps
// metrics in memory only.
func New(cfg *config.Config, telemetry *infrastructure.Telemetry, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if telemetry == nil {
		var err error
		telemetry, err = infrastructure.NewTelemetry(config.TelemetryConfig{TraceExporter: "none"}, nil, nil)
		if err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		exportCfg: cfg.Export,
		tracer:    stageTracer{telemetry: telemetry},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	component := func(name string) *slog.Logger {
		return infrastructure.WithComponent(p.logger, name)
	}
	p.loader = dataprocessing.NewLoader(component("loader"))
	p.cleaner = dataprocessing.NewCleaner(component("cleaner"))
	p.joiner = dataprocessing.NewJoiner(component("joiner"))
	p.aggregator = dataprocessing.NewAggregator(component("aggregator"))
	p.quality = validation.NewQualityValidator(component("validator"))
	p.fileValidator = validation.NewFileValidator(component("validator"))
	p.exporter = exporter.NewExporter(cfg.Export, component("exporter"))

	return p, nil
}

type stageFunc func(ctx context.Context, s State, in dataprocessing.Inputs, outputDir string) (State, error)

// Run executes every stage in order and returns the final state. The first
// failing stage aborts the run; its error is returned as a *StageError
// together with the state reached so far.
func (p *Pipeline) Run(ctx context.Context, in dataprocessing.Inputs, outputDir string) (State, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := State{TraceID: infrastructure.GetTraceID(ctx)}
	outputDir = config.NewOutputPaths(outputDir).Dir

	ctx, span := p.tracer.traceRun(ctx, state.TraceID, outputDir)
	defer span.End()

	p.logger.InfoContext(ctx, "pipeline started",
		slog.Any("inputs", in.Paths()),
		slog.String("output_dir", outputDir))
	start := time.Now()

	stages := []struct {
		id string
		fn stageFunc
	}{
		{StageLoad, p.load},
		{StageClean, p.clean},
		{StageJoin, p.join},
		{StageAggregate, p.aggregate},
		{StageValidate, p.validate},
		{StageExport, p.export},
	}

	for _, stage := range stages {
		stageCtx, stageSpan := p.tracer.traceStage(ctx, stage.id)
		stageStart := time.Now()

		next, err := stage.fn(stageCtx, state, in, outputDir)
		p.tracer.recordStage(stageCtx, stageSpan, stage.id, time.Since(stageStart), err)
		stageSpan.End()

		if err != nil {
			p.logger.ErrorContext(ctx, "pipeline stage failed",
				slog.String("stage", stage.id),
				slog.String("error", err.Error()))
			span.RecordError(err)
			return state, NewStageError(stage.id, err)
		}
		state = next

		p.logger.DebugContext(ctx, "pipeline stage complete",
			slog.String("stage", stage.id),
			slog.Duration("duration", time.Since(stageStart)))
	}

	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("master_rows", state.Master.Len()),
		slog.Int("files_written", len(state.Written)),
		slog.Duration("duration", time.Since(start)))

	return state, nil
}

func (p *Pipeline) load(ctx context.Context, s State, in dataprocessing.Inputs, _ string) (State, error) {
	if err := p.fileValidator.ValidateSources(in.Paths()...); err != nil {
		return s, err
	}
	raw, err := p.loader.LoadAll(ctx, in)
	if err != nil {
		return s, err
	}
	p.tracer.recordTables(ctx, StageLoad, raw.Named()...)

	s.Raw = raw
	return s, nil
}

func (p *Pipeline) clean(ctx context.Context, s State, _ dataprocessing.Inputs, _ string) (State, error) {
	cleaned, stats, err := p.cleaner.CleanAll(ctx, s.Raw)
	if err != nil {
		return s, err
	}
	p.tracer.recordTables(ctx, StageClean, cleaned.Named()...)
	for _, st := range stats {
		for column, n := range st.Coerced {
			p.tracer.telemetry.Metrics.RecordCoercions(ctx, st.Table, column, n)
		}
	}

	s.Cleaned = cleaned
	s.CleanStats = stats
	return s, nil
}

func (p *Pipeline) join(ctx context.Context, s State, _ dataprocessing.Inputs, _ string) (State, error) {
	master, stats, err := p.joiner.BuildMaster(ctx, s.Cleaned)
	if err != nil {
		return s, err
	}
	p.tracer.recordTables(ctx, StageJoin, domain.NamedTable{Name: domain.EntityMaster, Table: master})

	s.Master = master
	s.JoinStats = stats
	return s, nil
}

func (p *Pipeline) aggregate(ctx context.Context, s State, _ dataprocessing.Inputs, _ string) (State, error) {
	aggregates, err := p.aggregator.Aggregate(ctx, s.Master)
	if err != nil {
		return s, err
	}
	p.tracer.recordTables(ctx, StageAggregate, aggregates.Named()...)

	s.Aggregates = aggregates
	return s, nil
}

func (p *Pipeline) validate(ctx context.Context, s State, _ dataprocessing.Inputs, _ string) (State, error) {
	report := p.quality.Validate(ctx, s.Master)
	if p.report != nil {
		if err := report.Render(p.report); err != nil {
			p.logger.WarnContext(ctx, "failed to print quality report", slog.String("error", err.Error()))
		}
		if err := exporter.WriteSample(p.report, "MONTHLY AGGREGATION SAMPLE:", s.Aggregates.Monthly, config.ReportSampleRows); err != nil {
			p.logger.WarnContext(ctx, "failed to print monthly sample", slog.String("error", err.Error()))
		}
	}

	s.Quality = report
	return s, nil
}

func (p *Pipeline) export(ctx context.Context, s State, _ dataprocessing.Inputs, outputDir string) (State, error) {
	if err := p.fileValidator.ValidateOutputDirectory(outputDir); err != nil {
		return s, err
	}

	written, err := p.exporter.ExportAll(ctx, outputDir, s.Cleaned, s.Master, s.Aggregates)
	if err != nil {
		return s, err
	}

	if p.exportCfg.QualityReport {
		path := config.NewOutputPaths(outputDir).QualityReport()
		if err := exporter.WriteReport(path, s.Quality); err != nil {
			return s, err
		}
		written = append(written, path)
	}

	s.Written = written
	return s, nil
}
