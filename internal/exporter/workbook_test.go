package exporter

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

func TestWorkbookWriter_WriteTablesInfinity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratios.xlsx")
	ratios := domain.NewTable("ratios", []string{"Product", "Ratio"})
	ratios.AppendRow(domain.Row{domain.StringValue("Fudge"), domain.FloatValue(math.Inf(1))})
	ratios.AppendRow(domain.Row{domain.StringValue("Caramel"), domain.FloatValue(math.Inf(-1))})
	ratios.AppendRow(domain.Row{domain.StringValue("Mint Chip"), domain.FloatValue(2.5)})

	require.NoError(t, NewWorkbookWriter(nil).WriteTables(path, []domain.NamedTable{{Name: "ratios", Table: ratios}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("ratios")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Product", "Ratio"},
		{"Fudge", "inf"},
		{"Caramel", "-inf"},
		{"Mint Chip", "2.5"},
	}, rows)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		name  string
		value domain.Value
		want  interface{}
	}{
		{"string", domain.StringValue("UK"), "UK"},
		{"int", domain.IntValue(7), int64(7)},
		{"float", domain.FloatValue(1.5), 1.5},
		{"positive infinity", domain.FloatValue(math.Inf(1)), "inf"},
		{"negative infinity", domain.FloatValue(math.Inf(-1)), "-inf"},
		{"bool", domain.BoolValue(true), true},
		{"date", domain.DateValue(time.Date(2022, 3, 20, 0, 0, 0, 0, time.UTC)), "2022-03-20"},
		{"missing", domain.NullValue(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellValue(tt.value))
		})
	}
}

func TestWorkbookWriter_NoTables(t *testing.T) {
	err := NewWorkbookWriter(nil).WriteTables(filepath.Join(t.TempDir(), "empty.xlsx"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsExportError(err))
}
