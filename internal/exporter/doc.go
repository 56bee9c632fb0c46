// Package exporter writes pipeline tables to disk for Power BI.
//
// CSVWriter: core CSV writing with a header row, no index column, truncate
// semantics and an optional UTF-8 BOM for Excel.
//
// WorkbookWriter: writes several tables into one .xlsx file, one sheet each.
//
// Exporter: lays out a whole run (master, cleaned and aggregated tables)
// in one directory.
//
// Example usage:
//
//	exp := exporter.NewExporter(cfg.Export, logger)
//	written, err := exp.ExportAll(ctx, "./processed_data/", cleaned, master, aggregates)
//
// Cell formatting is fixed so that two runs over the same input produce
// byte-identical files.
package exporter
