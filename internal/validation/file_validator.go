package validation

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"logisticsprep/internal/errors"
)

// SourceExtensions are the file types the loader recognises. Any other
// extension is read as comma separated text.
var SourceExtensions = []string{".csv", ".xlsx", ".xlsm"}

// FileValidator checks input and output locations before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSources checks every source file and reports all problems at once
func (v *FileValidator) ValidateSources(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := v.ValidateSourceFile(p); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// ValidateSourceFile checks that path is a readable file. An unrecognised
// extension is only a warning since the loader falls back to CSV.
func (v *FileValidator) ValidateSourceFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); !slices.Contains(SourceExtensions, ext) {
		v.logger.Warn("Source has an unrecognised extension, reading it as CSV",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	// Office lock files share the workbook's extension
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Error("Source is a temporary workbook lock file",
			slog.String("file", path))
		return errors.NewLoadError(fmt.Sprintf("%s is a temporary workbook file", path), nil)
	}

	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewLoadError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewLoadError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewLoadError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewLoadError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and that files can be written into it
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewExportError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	check, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewExportError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	check.Close()
	os.Remove(check.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
