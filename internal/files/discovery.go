package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"logisticsprep/internal/config"
	"logisticsprep/internal/dataprocessing"
	"logisticsprep/internal/errors"
	"logisticsprep/pkg/contracts/domain"
)

// FileInfo represents information about a discovered or written file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// sourceStems maps each entity to the base name its source file carries
var sourceStems = map[string]string{
	domain.EntitySalesperson: stem(config.DefaultSalespersonFile),
	domain.EntityShipment:    stem(config.DefaultShipmentFile),
	domain.EntityCountry:     stem(config.DefaultCountryFile),
	domain.EntityProduct:     stem(config.DefaultProductFile),
}

// extensionRank orders the accepted source types; lower wins when a
// directory holds the same entity in several formats
var extensionRank = map[string]int{".csv": 0, ".xlsx": 1, ".xlsm": 2}

func stem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// Discovery locates source files in a directory
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: logger}
}

// FindSourceFiles lists the files in dir that could be a source: csv and
// workbook files, skipping office lock files. The result is sorted by name.
func (d *Discovery) FindSourceFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewLoadError(fmt.Sprintf("failed to read directory %s", dir), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if _, ok := extensionRank[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FindSources resolves the four sources in dir. Names match without regard
// to case, so shipment.CSV is found as well as Shipment.csv. When an entity
// is present in several formats the csv file is used.
func (d *Discovery) FindSources(dir string) (dataprocessing.Inputs, error) {
	files, err := d.FindSourceFiles(dir)
	if err != nil {
		return dataprocessing.Inputs{}, err
	}

	found := make(map[string]FileInfo, len(sourceStems))
	for _, f := range files {
		for entity, want := range sourceStems {
			if stem(f.Name) != want {
				continue
			}
			prev, seen := found[entity]
			if !seen || rank(f.Name) < rank(prev.Name) {
				found[entity] = f
			}
		}
	}

	var missing []string
	for _, entity := range domain.Entities {
		if _, ok := found[entity]; !ok {
			missing = append(missing, entity)
		}
	}
	if len(missing) > 0 {
		d.logger.Error("Source files not found",
			slog.String("dir", dir),
			slog.Any("missing", missing))
		return dataprocessing.Inputs{}, errors.NewNotFoundError(
			fmt.Sprintf("source file for %s in %s", strings.Join(missing, ", "), dir),
		).WithContext("missing_sources", missing)
	}

	in := dataprocessing.Inputs{
		Salesperson: found[domain.EntitySalesperson].Path,
		Shipment:    found[domain.EntityShipment].Path,
		Country:     found[domain.EntityCountry].Path,
		Product:     found[domain.EntityProduct].Path,
	}
	d.logger.Info("Source files discovered",
		slog.String("dir", dir),
		slog.Any("sources", in.Paths()))
	return in, nil
}

func rank(name string) int {
	return extensionRank[strings.ToLower(filepath.Ext(name))]
}
