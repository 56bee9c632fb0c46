package config

import (
	"path/filepath"
)

// OutputPaths resolves every artifact a run writes into one directory.
// This is the single place output file names are composed.
type OutputPaths struct {
	Dir string
}

// NewOutputPaths creates output paths rooted at dir. An empty dir falls
// back to DefaultOutputDir.
func NewOutputPaths(dir string) OutputPaths {
	if dir == "" {
		dir = DefaultOutputDir
	}
	return OutputPaths{Dir: filepath.Clean(dir)}
}

// MasterDataset returns the path of the joined master table
func (p OutputPaths) MasterDataset() string {
	return filepath.Join(p.Dir, MasterDatasetFile)
}

// Cleaned returns the path of a cleaned entity table, e.g. shipment_cleaned.csv
func (p OutputPaths) Cleaned(entity string) string {
	return filepath.Join(p.Dir, entity+CleanedFileSuffix)
}

// Aggregated returns the path of an aggregate table, e.g. monthly_aggregated.csv
func (p OutputPaths) Aggregated(name string) string {
	return filepath.Join(p.Dir, name+AggregatedFileSuffix)
}

// Workbook returns the path of the optional combined workbook
func (p OutputPaths) Workbook() string {
	return filepath.Join(p.Dir, WorkbookFile)
}

// QualityReport returns the path of the optional machine-readable quality report
func (p OutputPaths) QualityReport() string {
	return filepath.Join(p.Dir, QualityReportFile)
}
