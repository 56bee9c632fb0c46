package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
)

// Manager reports on the files a run has written
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	exists := err == nil

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// Describe stats each path, keeping the given order
func (m *Manager) Describe(paths []string) ([]FileInfo, error) {
	infos := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		infos = append(infos, FileInfo{
			Path:    p,
			Name:    filepath.Base(p),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return infos, nil
}

// TotalSize sums the sizes of files
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

// WriteSummary prints one line per file with its size, followed by a total
func (m *Manager) WriteSummary(w io.Writer, files []FileInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, f := range files {
		if _, err := fmt.Fprintf(tw, "%s\t%d bytes\t\n", f.Name, f.Size); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "total\t%d bytes\t\n", TotalSize(files)); err != nil {
		return err
	}
	return tw.Flush()
}
