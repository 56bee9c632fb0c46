// Command preprocessor turns the four logistics source files into the
// cleaned, joined and aggregated CSV tables a reporting tool imports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"logisticsprep/internal/config"
	"logisticsprep/internal/dataprocessing"
	"logisticsprep/internal/files"
	"logisticsprep/internal/infrastructure"
	"logisticsprep/internal/pipeline"
	"logisticsprep/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "preprocessor: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	inputs     dataprocessing.Inputs
	inputDir   string
	explicit   map[string]bool
	outputDir  string
	configFile string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	defaults := dataprocessing.DefaultInputs()

	fs := flag.NewFlagSet("preprocessor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.inputs.Salesperson, "salesperson", defaults.Salesperson, "salesperson source file")
	fs.StringVar(&opts.inputs.Shipment, "shipment", defaults.Shipment, "shipment source file")
	fs.StringVar(&opts.inputs.Country, "country", defaults.Country, "country source file")
	fs.StringVar(&opts.inputs.Product, "product", defaults.Product, "product source file")
	fs.StringVar(&opts.inputDir, "in", "", "directory to discover the four source files in; per-source flags override it")
	fs.StringVar(&opts.outputDir, "out", config.DefaultOutputDir, "output directory for the processed tables")
	fs.StringVar(&opts.configFile, "config", "", "optional YAML file with logging, export and telemetry settings")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.explicit[f.Name] = true
	})
	return opts, nil
}

// resolveInputs fills the sources from -in, keeping any source given by
// its own flag
func resolveInputs(opts options, logger *slog.Logger) (dataprocessing.Inputs, error) {
	if opts.inputDir == "" {
		return opts.inputs, nil
	}

	found, err := files.NewDiscovery(infrastructure.WithComponent(logger, "discovery")).FindSources(opts.inputDir)
	if err != nil {
		return dataprocessing.Inputs{}, err
	}

	in := opts.inputs
	pick := func(flagName string, dst *string, discovered string) {
		if !opts.explicit[flagName] {
			*dst = discovered
		}
	}
	pick("salesperson", &in.Salesperson, found.Salesperson)
	pick("shipment", &in.Shipment, found.Shipment)
	pick("country", &in.Country, found.Country)
	pick("product", &in.Product, found.Product)
	return in, nil
}

// run executes one preprocessing run. Logs and the quality report go to
// stdout; usage errors go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, stdout)
	if err != nil {
		return err
	}
	defer infrastructure.ShutdownLogger()

	telemetry, err := infrastructure.NewTelemetry(cfg.Telemetry, stdout, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("Starting logistics preprocessing",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("output_dir", opts.outputDir))

	inputs, err := resolveInputs(opts, logger)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Source discovery failed")
		return err
	}

	p, err := pipeline.New(cfg, telemetry,
		pipeline.WithLogger(logger),
		pipeline.WithReportWriter(stdout))
	if err != nil {
		return err
	}

	state, runErr := p.Run(ctx, inputs, opts.outputDir)

	if cfg.Telemetry.MetricsFile != "" {
		if err := telemetry.Metrics.WriteTextfile(cfg.Telemetry.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file",
				slog.String("path", cfg.Telemetry.MetricsFile),
				slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		infrastructure.WithError(logger, runErr).Error("Preprocessing failed")
		return runErr
	}

	fmt.Fprintf(stdout, "\nProcessing complete. %d files written to %s\n",
		len(state.Written), config.NewOutputPaths(opts.outputDir).Dir)

	manager := files.NewManager(logger)
	written, err := manager.Describe(state.Written)
	if err != nil {
		return err
	}
	return manager.WriteSummary(stdout, written)
}
