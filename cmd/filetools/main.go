package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nicad/duckdb-file-tools/internal/agecrypt"
	"github.com/nicad/duckdb-file-tools/internal/collector"
	"github.com/nicad/duckdb-file-tools/internal/config"
	"github.com/nicad/duckdb-file-tools/internal/extension"
	"github.com/nicad/duckdb-file-tools/internal/logging"
	"github.com/nicad/duckdb-file-tools/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

// app holds what every command shares once flags are parsed
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *prometheus.Registry
	registry *extension.Registry
	report   *report.Generator

	// global flags
	verbose     bool
	format      string
	outputFile  string
	workers     int
	keyringPath string
	showMetrics bool
}

func main() {
	a := &app{}
	rootCmd := newRootCmd(a)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filetools",
		Short: "Filesystem enumeration, hashing, compression and encryption functions",
		Long: `Runs the file tools functions from the command line, resolving each one
through the same registry a database host would use.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&a.format, "format", "f", "", "Output format: text, json, yaml, md")
	flags.StringVarP(&a.outputFile, "output", "o", "", "Write the report to a file")
	flags.IntVarP(&a.workers, "workers", "w", 0, "Worker goroutines for the parallel strategies")
	flags.StringVar(&a.keyringPath, "keyring", "", "YAML file of named age key pairs")
	flags.BoolVar(&a.showMetrics, "metrics", false, "Print collection metrics after the report")

	rootCmd.AddCommand(globCmd(a))
	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(statCmd(a))
	rootCmd.AddCommand(hashCmd(a))
	rootCmd.AddCommand(partsCmd(a))
	rootCmd.AddCommand(compressCmd(a))
	rootCmd.AddCommand(decompressCmd(a))
	rootCmd.AddCommand(ageCmd(a))
	rootCmd.AddCommand(functionsCmd(a))

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the registry
func (a *app) setup() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		cfg.Debug = true
	}
	if a.workers > 0 {
		cfg.Workers = a.workers
	}
	if a.format != "" {
		cfg.OutputFormat = a.format
	}
	if a.showMetrics {
		cfg.Metrics = true
	}
	a.cfg = cfg

	if a.logger, err = logging.New(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	opts := []extension.Option{}
	if cfg.Metrics {
		a.metrics = prometheus.NewRegistry()
		opts = append(opts, extension.WithMetrics(collector.NewMetrics(a.metrics)))
	}
	if a.keyringPath != "" {
		ring, err := agecrypt.LoadKeyring(a.keyringPath)
		if err != nil {
			return err
		}
		opts = append(opts, extension.WithKeyring(ring))
	}

	a.registry = extension.NewRegistry(cfg, a.logger, opts...)
	a.report = report.NewGenerator(cfg, a.logger, os.Stdout)

	a.logger.Debug("Configuration loaded",
		zap.Int("workers", cfg.Workers),
		zap.Int("walk_concurrency", cfg.WalkConcurrency),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("format", cfg.OutputFormat))

	return nil
}

// emit renders t with the global format and output flags
func (a *app) emit(t *report.Table) error {
	path, err := a.report.Generate(t, a.cfg.OutputFormat, a.outputFile)
	if err != nil {
		return err
	}
	if path != "" {
		color.New(color.FgGreen).Fprintf(os.Stderr, "Report saved: %s\n", path)
	}
	return nil
}
