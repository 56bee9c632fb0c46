package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsprep/internal/errors"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a,b\n"), 0644))
	}
}

func TestFindSourceFiles(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "Shipment.csv", "Product.xlsx", "~$Product.xlsx", "notes.txt", "Country.XLSM")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0755))

	files, err := NewDiscovery(nil).FindSourceFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
	}
	assert.Equal(t, []string{"Country.XLSM", "Product.xlsx", "Shipment.csv"}, names)
}

func TestFindSourceFiles_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(nil).FindSourceFiles(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.IsLoadError(err))
}

func TestFindSources(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    []string
		missing string
	}{
		{
			name:  "default names",
			files: []string{"SalesPerson.csv", "Shipment.csv", "Country.csv", "Product.csv"},
			want:  []string{"SalesPerson.csv", "Shipment.csv", "Country.csv", "Product.csv"},
		},
		{
			name:  "case insensitive",
			files: []string{"salesperson.CSV", "SHIPMENT.csv", "country.csv", "product.xlsx"},
			want:  []string{"salesperson.CSV", "SHIPMENT.csv", "country.csv", "product.xlsx"},
		},
		{
			name:  "csv preferred over workbook",
			files: []string{"SalesPerson.xlsx", "SalesPerson.csv", "Shipment.csv", "Country.csv", "Product.xlsm", "Product.xlsx"},
			want:  []string{"SalesPerson.csv", "Shipment.csv", "Country.csv", "Product.xlsx"},
		},
		{
			name:    "missing entity",
			files:   []string{"SalesPerson.csv", "Shipment.csv", "Product.csv", "Countries.csv"},
			missing: "country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFiles(t, dir, tt.files...)

			in, err := NewDiscovery(nil).FindSources(dir)
			if tt.missing != "" {
				require.Error(t, err)
				assert.Equal(t, errors.ErrTypeNotFound, errors.TypeOf(err))
				assert.Contains(t, err.Error(), tt.missing)
				assert.Contains(t, err.Error(), "not found")
				return
			}
			require.NoError(t, err)

			got := make([]string, 0, 4)
			for _, p := range in.Paths() {
				assert.Equal(t, dir, filepath.Dir(p))
				got = append(got, filepath.Base(p))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
