package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"logisticsprep/internal/config"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

type exportTarget struct {
	path  string
	sheet domain.NamedTable
}

// Exporter writes the products of a run into one output directory
type Exporter struct {
	csvWriter      *CSVWriter
	workbookWriter *WorkbookWriter
	opts           config.ExportConfig
	logger         *slog.Logger
}

// NewExporter creates a new exporter
func NewExporter(opts config.ExportConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csvWriter:      NewCSVWriter(logger),
		workbookWriter: NewWorkbookWriter(logger),
		opts:           opts,
		logger:         logger,
	}
}

// ExportAll writes master_dataset.csv, one <entity>_cleaned.csv per source
// and one <name>_aggregated.csv per summary, plus the combined workbook when
// enabled. It returns the written paths in order.
func (e *Exporter) ExportAll(ctx context.Context, dir string, cleaned domain.Sources, master *domain.Table, aggregates domain.Aggregates) ([]string, error) {
	paths := config.NewOutputPaths(dir)
	if err := os.MkdirAll(paths.Dir, 0755); err != nil {
		return nil, errors.NewExportError(fmt.Sprintf("failed to create output directory %s", paths.Dir), err)
	}

	var targets []exportTarget
	add := func(path, sheet string, table *domain.Table) {
		targets = append(targets, exportTarget{path: path, sheet: domain.NamedTable{Name: sheet, Table: table}})
	}

	add(paths.MasterDataset(), domain.EntityMaster, master)
	for _, nt := range cleaned.Named() {
		add(paths.Cleaned(nt.Name), nt.Name+"_cleaned", nt.Table)
	}
	for _, nt := range aggregates.Named() {
		add(paths.Aggregated(nt.Name), nt.Name+"_aggregated", nt.Table)
	}

	opts := WriteOptions{BOMPrefix: e.opts.BOMPrefix}
	written := make([]string, 0, len(targets)+1)
	sheets := make([]domain.NamedTable, 0, len(targets))
	for _, t := range targets {
		if err := e.csvWriter.WriteTable(t.path, t.sheet.Table, opts); err != nil {
			e.logger.ErrorContext(ctx, "export failed",
				slog.String("path", t.path),
				slog.String("error", err.Error()))
			return written, err
		}
		written = append(written, t.path)
		sheets = append(sheets, t.sheet)
		e.logger.InfoContext(ctx, "exported",
			slog.String("path", t.path),
			slog.Int("rows", t.sheet.Table.Len()))
	}

	if e.opts.Workbook {
		if err := e.workbookWriter.WriteTables(paths.Workbook(), sheets); err != nil {
			return written, err
		}
		written = append(written, paths.Workbook())
		e.logger.InfoContext(ctx, "exported", slog.String("path", paths.Workbook()))
	}

	e.logger.InfoContext(ctx, "all files exported",
		slog.String("directory", paths.Dir),
		slog.Int("files", len(written)))
	return written, nil
}

// WriteReport dumps report as YAML to path
func WriteReport(path string, report interface{}) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.NewExportError("failed to encode report", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewExportError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
