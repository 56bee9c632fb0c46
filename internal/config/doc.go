// Package config provides configuration management for the logistics
// preprocessor. It loads the ambient settings of a run (logging, optional
// export artifacts, telemetry) and holds the fixed business constants that
// every pipeline stage shares.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. An optional YAML file passed with -config
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LOGPREP_* for namespacing:
//
//	LOGPREP_LOGGING_LEVEL=debug
//	LOGPREP_LOGGING_OUTPUT=both
//	LOGPREP_EXPORT_WORKBOOK=true
//	LOGPREP_TELEMETRY_TRACE_EXPORTER=stdout
//	LOGPREP_TELEMETRY_METRICS_FILE=processed_data/pipeline.prom
//
// # Business Constants
//
// ProfitMargin, LateDeliveryThresholdDays and InputDateLayout are constants,
// not settings. Changing them changes the meaning of every exported table,
// so they cannot be overridden per run.
//
// # Output Paths
//
// OutputPaths composes every output file name from one directory:
//
//	paths := config.NewOutputPaths("./processed_data/")
//	paths.MasterDataset()        // processed_data/master_dataset.csv
//	paths.Cleaned("shipment")    // processed_data/shipment_cleaned.csv
//	paths.Aggregated("monthly")  // processed_data/monthly_aggregated.csv
package config
