package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config represents the extension configuration
type Config struct {
	// Diagnostics
	Debug             bool          `mapstructure:"debug"`               // verbose performance logging
	SlowItemThreshold time.Duration `mapstructure:"slow_item_threshold"` // per-entry time above which a debug line is logged
	SlowReadThreshold time.Duration `mapstructure:"slow_read_threshold"` // single read time above which a debug line is logged
	Metrics           bool          `mapstructure:"metrics"`             // record prometheus metrics

	// Concurrency
	Workers         int `mapstructure:"workers"`          // metadata/hash worker goroutines
	WalkConcurrency int `mapstructure:"walk_concurrency"` // concurrent directory reads during a walk

	// Emission
	BatchSize int `mapstructure:"batch_size"` // rows per emitted chunk

	// CLI output
	OutputFormat string `mapstructure:"output_format"` // text, json, yaml, md
}

// Default returns the configuration defaults without reading the environment
func Default() *Config {
	return &Config{
		Debug:             false,
		SlowItemThreshold: 100 * time.Millisecond,
		SlowReadThreshold: 50 * time.Millisecond,
		Metrics:           true,
		Workers:           runtime.NumCPU(),
		WalkConcurrency:   runtime.NumCPU(),
		BatchSize:         2048,
		OutputFormat:      "text",
	}
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()
	def := Default()

	// Set defaults
	v.SetDefault("debug", def.Debug)
	v.SetDefault("slow_item_threshold", def.SlowItemThreshold)
	v.SetDefault("slow_read_threshold", def.SlowReadThreshold)
	v.SetDefault("metrics", def.Metrics)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("walk_concurrency", def.WalkConcurrency)
	v.SetDefault("batch_size", def.BatchSize)
	v.SetDefault("output_format", def.OutputFormat)

	// Read environment variables
	v.SetEnvPrefix("FILETOOLS")
	v.AutomaticEnv()

	// The extension historically honoured DUCKDB_FILE_TOOLS_DEBUG=1
	if err := v.BindEnv("debug", "FILETOOLS_DEBUG", "DUCKDB_FILE_TOOLS_DEBUG"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return &cfg, nil
}

// normalize replaces non-positive sizes with defaults
func (c *Config) normalize() {
	def := Default()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.WalkConcurrency <= 0 {
		c.WalkConcurrency = def.WalkConcurrency
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.OutputFormat == "" {
		c.OutputFormat = def.OutputFormat
	}
}
