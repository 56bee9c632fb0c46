// Package dataprocessing turns the four raw logistics sources into the
// cleaned, joined and summarized tables consumed by the reporting layer.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Loader: reads delimited files and workbooks into tables of raw text
// 2. Cleaner: applies per-entity transform tables and derives shipment features
// 3. Joiner: left joins the dimensions onto shipments and adds financials
// 4. Aggregator: groups the master table into the summary tables
//
// # Usage
//
//	sources, err := dataprocessing.NewLoader(logger).LoadAll(ctx, dataprocessing.DefaultInputs())
//	if err != nil {
//	    return err
//	}
//	cleaned, stats, err := dataprocessing.NewCleaner(logger).CleanAll(ctx, sources)
//	master, joinStats, err := dataprocessing.NewJoiner(logger).BuildMaster(ctx, cleaned)
//	aggregates, err := dataprocessing.NewAggregator(logger).Aggregate(ctx, master)
//
// # Data Flow
//
//	CSV/XLSX → Loader → raw Sources → Cleaner → cleaned Sources → Joiner → master → Aggregator → Aggregates
//
// Every stage returns new tables and leaves its inputs untouched.
//
// # Missing Values
//
// Empty cells load as missing. Text that cannot be parsed as a date or a
// number also becomes missing and is counted per column in CleanStats.
// Missing keys never join and never form a group.
package dataprocessing
