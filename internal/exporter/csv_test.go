package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

func sampleTable() *domain.Table {
	t := domain.NewTable("status", []string{"Status", "Shipment Count", "Total Revenue", "Is Late"})
	t.AppendRow(domain.Row{domain.StringValue("Active"), domain.IntValue(2), domain.FloatValue(50), domain.BoolValue(false)})
	t.AppendRow(domain.Row{domain.StringValue("Returned, partial"), domain.IntValue(1), domain.NullValue(), domain.BoolValue(true)})
	return t
}

func TestCSVWriter_WriteTable(t *testing.T) {
	tests := []struct {
		name     string
		opts     WriteOptions
		expected string
	}{
		{
			name:     "plain",
			opts:     WriteOptions{},
			expected: "Status,Shipment Count,Total Revenue,Is Late\nActive,2,50.0,False\n\"Returned, partial\",1,,True\n",
		},
		{
			name:     "with bom",
			opts:     WriteOptions{BOMPrefix: true},
			expected: "\xEF\xBB\xBFStatus,Shipment Count,Total Revenue,Is Late\nActive,2,50.0,False\n\"Returned, partial\",1,,True\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "status_aggregated.csv")

			require.NoError(t, NewCSVWriter(nil).WriteTable(path, sampleTable(), tt.opts))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))
		})
	}
}

func TestCSVWriter_WriteTableTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale line\n", 50)), 0644))

	require.NoError(t, NewCSVWriter(nil).WriteTable(path, sampleTable(), WriteOptions{}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCSVWriter_HeaderOnlyForEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	empty := domain.NewTable("empty", []string{"A", "B"})

	require.NoError(t, NewCSVWriter(nil).WriteTable(path, empty, WriteOptions{}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A,B\n", string(content))
}

func TestCSVWriter_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name  string
		path  string
		table *domain.Table
	}{
		{"parent is a file", filepath.Join(blocker, "out.csv"), sampleTable()},
		{"target is a directory", dir, sampleTable()},
		{"nil table", filepath.Join(dir, "nil.csv"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCSVWriter(nil).WriteTable(tt.path, tt.table, WriteOptions{})
			require.Error(t, err)
			assert.True(t, errors.IsExportError(err))
		})
	}
}

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.csv")

	stream, err := NewCSVWriter(nil).CreateStreamWriter(path, []string{"Name", "Value"}, WriteOptions{})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRow(domain.Row{domain.StringValue("raw"), domain.IntValue(1)}))
	require.NoError(t, stream.WriteRow(domain.Row{domain.StringValue("typed"), domain.FloatValue(2)}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Value\nraw,1\ntyped,2.0\n", string(content))
}
