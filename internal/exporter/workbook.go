package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"logisticsprep/internal/config"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

// Excel limits sheet names to 31 characters
const maxSheetName = 31

// WorkbookWriter writes several tables into one workbook, one sheet each
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// WriteTables writes tables to path in order. Sheet names are the table
// names. Numbers and booleans keep their cell type; dates are written as
// ISO text like in the CSV files.
func (w *WorkbookWriter) WriteTables(path string, tables []domain.NamedTable) error {
	if len(tables) == 0 {
		return errors.NewExportError(fmt.Sprintf("no tables to write to %s", path), nil)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return errors.NewExportError("failed to create header style", err)
	}

	for i, nt := range tables {
		sheet := sheetName(nt.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return errors.NewExportError(fmt.Sprintf("failed to name sheet %s", sheet), err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return errors.NewExportError(fmt.Sprintf("failed to add sheet %s", sheet), err)
		}

		if err := writeSheet(f, sheet, nt.Table); err != nil {
			return errors.NewExportError(fmt.Sprintf("failed to write sheet %s", sheet), err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return errors.NewExportError(fmt.Sprintf("failed to style sheet %s", sheet), err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewExportError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewExportError(fmt.Sprintf("failed to save %s", path), err)
	}

	w.logger.Debug("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *domain.Table) error {
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(v domain.Value) interface{} {
	switch v.Kind() {
	case domain.KindString:
		s, _ := v.AsString()
		return s
	case domain.KindInt:
		i, _ := v.AsInt()
		return i
	case domain.KindFloat:
		f, _ := v.AsFloat()
		// Cells cannot hold infinities; write the same text as the CSV
		if math.IsInf(f, 0) {
			return formatFloat(f)
		}
		return f
	case domain.KindBool:
		b, _ := v.AsBool()
		return b
	case domain.KindDate:
		t, _ := v.AsTime()
		return t.Format(config.OutputDateLayout)
	}
	return nil
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
