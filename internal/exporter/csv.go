package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"logisticsprep/internal/config"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter writes tables as comma separated files with a header row and
// no index column. Existing files are truncated.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteTable writes table to path
func (w *CSVWriter) WriteTable(path string, table *domain.Table, opts WriteOptions) error {
	if table == nil {
		return errors.NewExportError(fmt.Sprintf("no table to write to %s", path), nil)
	}

	stream, err := w.CreateStreamWriter(path, table.Columns, opts)
	if err != nil {
		return err
	}

	for i, row := range table.Rows {
		if err := stream.WriteRow(row); err != nil {
			stream.Close()
			return errors.NewExportError(fmt.Sprintf("failed to write record %d of %s", i, path), err)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewExportError(fmt.Sprintf("failed to flush %s", path), err)
	}

	w.logger.Debug("CSV file written",
		slog.String("table", table.Name),
		slog.String("path", path),
		slog.Int("record_count", table.Len()))
	return nil
}

// StreamWriter writes rows one at a time
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates the file at path, writing the optional BOM and
// the header row
func (w *CSVWriter) CreateStreamWriter(path string, headers []string, opts WriteOptions) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewExportError(fmt.Sprintf("failed to create directory for %s", path), err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.NewExportError(fmt.Sprintf("failed to open %s", path), err)
	}

	if opts.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, errors.NewExportError(fmt.Sprintf("failed to write BOM to %s", path), err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = config.OutputDelimiter

	if err := writer.Write(headers); err != nil {
		file.Close()
		return nil, errors.NewExportError(fmt.Sprintf("failed to write headers to %s", path), err)
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRow formats and writes a single row
func (s *StreamWriter) WriteRow(row domain.Row) error {
	return s.writer.Write(FormatRow(row))
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
