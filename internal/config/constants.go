package config

import "logisticsprep/pkg/contracts"

// Application constants - hardcoded values for the logistics preprocessor
const (
	// Application Info
	AppName    = "Logistics Reporting Preprocessor"
	AppVersion = contracts.Version

	// Environment variable prefix, e.g. LOGPREP_LOGGING_LEVEL
	EnvPrefix = "LOGPREP"

	// Business assumptions. Both are fixed for every run and are not
	// exposed through Config.
	ProfitMargin              = 0.30
	LateDeliveryThresholdDays = 15

	// Input date layout: day/month/year, leading zeros optional
	InputDateLayout = "2/1/2006"

	// Input and output files are comma separated
	InputDelimiter = ','

	// Output formats
	OutputDateLayout = "2006-01-02"
	OutputDelimiter  = ','

	// Default locations
	DefaultOutputDir       = "./processed_data/"
	DefaultSalespersonFile = "SalesPerson.csv"
	DefaultShipmentFile    = "Shipment.csv"
	DefaultCountryFile     = "Country.csv"
	DefaultProductFile     = "Product.csv"

	// Output file names
	MasterDatasetFile    = "master_dataset.csv"
	CleanedFileSuffix    = "_cleaned.csv"
	AggregatedFileSuffix = "_aggregated.csv"
	WorkbookFile         = "processed_data.xlsx"
	QualityReportFile    = "data_quality_report.yaml"

	// Aggregate rows echoed to the console after the quality report
	ReportSampleRows = 10

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/preprocessor.log"
)
