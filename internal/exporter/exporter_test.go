package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"logisticsprep/internal/config"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

func table(name string, columns ...string) *domain.Table {
	t := domain.NewTable(name, columns)
	row := make(domain.Row, len(columns))
	for i := range row {
		row[i] = domain.IntValue(int64(i))
	}
	t.AppendRow(row)
	return t
}

func sampleRun() (domain.Sources, *domain.Table, domain.Aggregates) {
	sources := domain.Sources{
		Salespeople: table(domain.EntitySalesperson, domain.SalespersonColumns...),
		Shipments:   table(domain.EntityShipment, domain.ShipmentColumns...),
		Countries:   table(domain.EntityCountry, domain.CountryColumns...),
		Products:    table(domain.EntityProduct, domain.ProductColumns...),
	}
	master := table(domain.EntityMaster, domain.ColShipmentID, domain.ColRevenue)
	aggs := domain.Aggregates{
		Monthly:     table(domain.AggregateMonthly, domain.ColYear, domain.ColShipmentCount),
		Salesperson: table(domain.AggregateSalesperson, domain.ColSalesPerson, domain.ColShipmentCount),
		Geography:   table(domain.AggregateGeography, domain.ColGeography, domain.ColShipmentCount),
		Product:     table(domain.AggregateProduct, domain.ColProduct, domain.ColShipmentCount),
		Status:      table(domain.AggregateStatus, domain.ColStatus, domain.ColShipmentCount),
	}
	return sources, master, aggs
}

func TestExporter_ExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed_data")
	sources, master, aggs := sampleRun()

	written, err := NewExporter(config.ExportConfig{}, nil).ExportAll(context.Background(), dir, sources, master, aggs)
	require.NoError(t, err)

	expected := []string{
		"master_dataset.csv",
		"salesperson_cleaned.csv",
		"shipment_cleaned.csv",
		"country_cleaned.csv",
		"product_cleaned.csv",
		"monthly_aggregated.csv",
		"salesperson_aggregated.csv",
		"geography_aggregated.csv",
		"product_aggregated.csv",
		"status_aggregated.csv",
	}
	require.Len(t, written, len(expected))
	for i, name := range expected {
		assert.Equal(t, filepath.Join(dir, name), written[i])
		assert.FileExists(t, written[i])
	}

	content, err := os.ReadFile(filepath.Join(dir, "master_dataset.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Shipment ID,Revenue\n0,1\n", string(content))
}

func TestExporter_ExportAllIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sources, master, aggs := sampleRun()
	exp := NewExporter(config.ExportConfig{}, nil)

	first, err := exp.ExportAll(context.Background(), dir, sources, master, aggs)
	require.NoError(t, err)
	snapshot := make(map[string][]byte, len(first))
	for _, p := range first {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		snapshot[p] = b
	}

	second, err := exp.ExportAll(context.Background(), dir, sources, master, aggs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	for _, p := range second {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, snapshot[p], b, p)
	}
}

func TestExporter_ExportAllWorkbook(t *testing.T) {
	dir := t.TempDir()
	sources, master, aggs := sampleRun()

	written, err := NewExporter(config.ExportConfig{Workbook: true}, nil).ExportAll(context.Background(), dir, sources, master, aggs)
	require.NoError(t, err)
	require.Len(t, written, 11)

	workbook := filepath.Join(dir, config.WorkbookFile)
	assert.Equal(t, workbook, written[10])

	f, err := excelize.OpenFile(workbook)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 10)
	assert.Equal(t, "master", sheets[0])
	assert.Equal(t, "shipment_cleaned", sheets[2])
	assert.Equal(t, "status_aggregated", sheets[9])

	rows, err := f.GetRows("master")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Shipment ID", "Revenue"}, {"0", "1"}}, rows)
}

func TestExporter_ExportAllUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	sources, master, aggs := sampleRun()

	_, err := NewExporter(config.ExportConfig{}, nil).ExportAll(context.Background(), filepath.Join(blocker, "out"), sources, master, aggs)
	require.Error(t, err)
	assert.True(t, errors.IsExportError(err))
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.QualityReportFile)
	report := struct {
		TotalRows int      `yaml:"total_rows"`
		Columns   []string `yaml:"columns"`
	}{TotalRows: 5, Columns: []string{"Region"}}

	require.NoError(t, WriteReport(path, report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(content, &decoded))
	assert.Equal(t, 5, decoded["total_rows"])
}

func TestWriteReport_UnwritablePath(t *testing.T) {
	err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.yaml"), map[string]int{"a": 1})
	require.Error(t, err)
	assert.True(t, errors.IsExportError(err))
}
