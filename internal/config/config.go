package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"logisticsprep/internal/errors"
)

// Config represents the ambient configuration of a preprocessing run.
// Business rules (margin, late threshold, column names) are constants and
// are deliberately absent here.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/preprocessor.log" validate:"required_unless=Output console"`
}

// ExportConfig controls the optional artifacts written next to the CSV files
type ExportConfig struct {
	Workbook      bool `yaml:"workbook" envconfig:"WORKBOOK" default:"false"`
	QualityReport bool `yaml:"quality_report" envconfig:"QUALITY_REPORT" default:"false"`
	BOMPrefix     bool `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"false"`
}

// TelemetryConfig controls tracing and metrics for pipeline stages
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from environment variables and an optional YAML
// file. Values set in the environment take precedence over the file.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("config file %s is not accessible", configFile), err).
				WithContext("config_file", configFile)
		}
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load config from file %s", configFile), err).
				WithContext("config_file", configFile)
		}
		cfg = mergeConfigs(*fileConfig, cfg, envOverrides())
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envOverrides lists the config keys explicitly set in the environment
func envOverrides() map[string]bool {
	set := make(map[string]bool)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix+"_") {
			set[strings.TrimPrefix(name, EnvPrefix+"_")] = true
		}
	}
	return set
}

// mergeConfigs merges file config with env config. A value from the
// environment wins only when its variable was actually set; otherwise
// envconfig defaults would always shadow the file.
func mergeConfigs(fileConfig, envConfig Config, envSet map[string]bool) Config {
	merged := envConfig

	pickString := func(key string, dst *string, fileVal string) {
		if !envSet[key] && fileVal != "" {
			*dst = fileVal
		}
	}
	pickBool := func(key string, dst *bool, fileVal bool) {
		if !envSet[key] {
			*dst = fileVal
		}
	}

	pickString("LOGGING_LEVEL", &merged.Logging.Level, fileConfig.Logging.Level)
	pickString("LOGGING_FORMAT", &merged.Logging.Format, fileConfig.Logging.Format)
	pickString("LOGGING_OUTPUT", &merged.Logging.Output, fileConfig.Logging.Output)
	pickString("LOGGING_FILE_PATH", &merged.Logging.FilePath, fileConfig.Logging.FilePath)

	pickBool("EXPORT_WORKBOOK", &merged.Export.Workbook, fileConfig.Export.Workbook)
	pickBool("EXPORT_QUALITY_REPORT", &merged.Export.QualityReport, fileConfig.Export.QualityReport)
	pickBool("EXPORT_BOM_PREFIX", &merged.Export.BOMPrefix, fileConfig.Export.BOMPrefix)

	pickString("TELEMETRY_TRACE_EXPORTER", &merged.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)
	pickString("TELEMETRY_METRICS_FILE", &merged.Telemetry.MetricsFile, fileConfig.Telemetry.MetricsFile)
	pickString("TELEMETRY_ENVIRONMENT", &merged.Telemetry.Environment, fileConfig.Telemetry.Environment)

	return merged
}

// validate validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	// Always use JSON format
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// Validate exposes validation for configs built in code
func (c *Config) Validate() error {
	return c.validate()
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Export: ExportConfig{},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			Environment:   "development",
		},
	}
}
