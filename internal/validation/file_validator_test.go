package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsprep/internal/errors"
	"logisticsprep/internal/shared/testutil"
)

func TestFileValidator_ValidateSourceFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "Shipment.csv")
				require.NoError(t, os.WriteFile(file, []byte("Shipment ID\n"), 0644))
				return file
			},
		},
		{
			name: "workbook with upper case extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "Shipment.XLSX")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "text extension is read as csv",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "Shipment.txt")
				require.NoError(t, os.WriteFile(file, []byte("Shipment ID\n"), 0644))
				return file
			},
		},
		{
			name: "file without extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "Shipment")
				require.NoError(t, os.WriteFile(file, []byte("Shipment ID\n"), 0644))
				return file
			},
		},
		{
			name: "workbook lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$Shipment.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("lock"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "temporary workbook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := tt.setupFunc(t)

			err := validator.ValidateSourceFile(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsLoadError(err))
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_UnrecognisedExtensionWarns(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	file := filepath.Join(t.TempDir(), "Country.dat")
	require.NoError(t, os.WriteFile(file, []byte("Geography,Region\n"), 0644))

	require.NoError(t, NewFileValidator(logger).ValidateSourceFile(file))
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "unrecognised extension")
	testutil.AssertNoErrors(t, handler)
}

func TestFileValidator_ValidateSources(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Country.csv")
	require.NoError(t, os.WriteFile(good, []byte("Geography,Region\n"), 0644))

	validator := NewFileValidator(nil)
	assert.NoError(t, validator.ValidateSources(good))

	err := validator.ValidateSources(good, filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.csv")
	assert.Contains(t, err.Error(), "b.csv")
	assert.True(t, errors.IsLoadError(err))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "processed_data", "run")
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "write check file is removed")
	})

	t.Run("path blocked by a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := validator.ValidateOutputDirectory(filepath.Join(blocker, "out"))
		require.Error(t, err)
		assert.True(t, errors.IsExportError(err))
	})

	t.Run("read only directory", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0555))
		t.Cleanup(func() { os.Chmod(dir, 0755) })

		err := validator.ValidateOutputDirectory(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not writable")
	})
}
