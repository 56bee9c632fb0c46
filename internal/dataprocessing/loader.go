package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"logisticsprep/internal/config"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Inputs names the four source files of a run
type Inputs struct {
	Salesperson string `validate:"required"`
	Shipment    string `validate:"required"`
	Country     string `validate:"required"`
	Product     string `validate:"required"`
}

// DefaultInputs returns the file names the preprocessor looks for in the
// working directory when none are given
func DefaultInputs() Inputs {
	return Inputs{
		Salesperson: config.DefaultSalespersonFile,
		Shipment:    config.DefaultShipmentFile,
		Country:     config.DefaultCountryFile,
		Product:     config.DefaultProductFile,
	}
}

// Paths lists the input files in entity order
func (in Inputs) Paths() []string {
	return []string{in.Salesperson, in.Shipment, in.Country, in.Product}
}

// Loader reads delimited files and workbooks into tables. It infers nothing
// beyond column presence: every non-empty cell is loaded as a raw string and
// empty cells are missing values.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// LoadAll loads the four sources. The reads are independent, so they run
// concurrently; each result lands in its own slot.
func (l *Loader) LoadAll(ctx context.Context, in Inputs) (domain.Sources, error) {
	if err := l.validate.Struct(in); err != nil {
		return domain.Sources{}, errors.NewAppValidationError(fmt.Sprintf("all four input locations are required: %v", err))
	}

	var sources domain.Sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sources.Salespeople, err = l.LoadTable(gctx, domain.EntitySalesperson, in.Salesperson, domain.SalespersonColumns)
		return err
	})
	g.Go(func() (err error) {
		sources.Shipments, err = l.LoadTable(gctx, domain.EntityShipment, in.Shipment, domain.ShipmentColumns)
		return err
	})
	g.Go(func() (err error) {
		sources.Countries, err = l.LoadTable(gctx, domain.EntityCountry, in.Country, domain.CountryColumns)
		return err
	})
	g.Go(func() (err error) {
		sources.Products, err = l.LoadTable(gctx, domain.EntityProduct, in.Product, domain.ProductColumns)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Sources{}, err
	}
	return sources, nil
}

// LoadTable reads one source and checks that it carries the required columns.
// Files ending in .xlsx are read from their first sheet; everything else is
// parsed as comma-separated text with a header row.
func (l *Loader) LoadTable(ctx context.Context, name, path string, required []string) (*domain.Table, error) {
	var (
		table *domain.Table
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = l.readWorkbook(name, path)
	default:
		table, err = l.readDelimited(name, path)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to load source",
			slog.String("table", name),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	if missing := table.RequireColumns(required...); len(missing) > 0 {
		l.logger.ErrorContext(ctx, "source is missing required columns",
			slog.String("table", name),
			slog.String("path", path),
			slog.Any("missing", missing))
		return nil, errors.NewMissingColumnsError(path, missing)
	}

	l.logger.InfoContext(ctx, "source loaded",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))

	return table, nil
}

func (l *Loader) readDelimited(name, path string) (*domain.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewLoadError(fmt.Sprintf("failed to open %s", path), err).WithContext("table", name)
	}
	defer file.Close()

	return parseDelimited(name, path, file)
}

func parseDelimited(name, path string, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = config.InputDelimiter
	reader.FieldsPerRecord = -1
	// Stray quotes inside unquoted cells are kept as text
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewLoadError(fmt.Sprintf("%s has no header row", path), nil).WithContext("table", name)
	}
	if err != nil {
		return nil, errors.NewLoadError(fmt.Sprintf("failed to read header of %s", path), err).WithContext("table", name)
	}
	header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))

	table := domain.NewTable(name, header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewLoadError(fmt.Sprintf("failed to parse %s", path), err).WithContext("table", name)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, errors.NewLoadError(
				fmt.Sprintf("%s line %d has %d fields, header has %d", path, line, len(record), len(header)),
				nil,
			).WithContext("table", name)
		}
		table.AppendRow(rawRow(record))
	}

	return table, nil
}

func (l *Loader) readWorkbook(name, path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewLoadError(fmt.Sprintf("failed to open %s", path), err).WithContext("table", name)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewLoadError(fmt.Sprintf("%s has no sheets", path), nil).WithContext("table", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewLoadError(fmt.Sprintf("failed to read sheet %q of %s", sheets[0], path), err).WithContext("table", name)
	}
	if len(rows) == 0 {
		return nil, errors.NewLoadError(fmt.Sprintf("%s has no header row", path), nil).WithContext("table", name)
	}

	table := domain.NewTable(name, rows[0])
	for _, record := range rows[1:] {
		// GetRows drops trailing empty cells; a zero-length row is a blank line
		if len(record) == 0 {
			continue
		}
		if len(record) > len(rows[0]) {
			record = record[:len(rows[0])]
		}
		table.AppendRow(rawRow(record))
	}

	return table, nil
}

// missingLiterals are the cell texts read as a missing value. Matching is
// exact, so " NA" and "na" stay text.
var missingLiterals = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

func isMissingLiteral(cell string) bool {
	return missingLiterals[cell]
}

func rawRow(record []string) domain.Row {
	row := make(domain.Row, len(record))
	for i, cell := range record {
		if isMissingLiteral(cell) {
			row[i] = domain.NullValue()
			continue
		}
		row[i] = domain.StringValue(cell)
	}
	return row
}
