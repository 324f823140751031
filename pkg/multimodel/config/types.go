package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the simulation analyzer
type Config struct {
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Paths         PathsConfig         `yaml:"paths"`
	Observability ObservabilityConfig `yaml:"observability"`
	Export        ExportConfig        `yaml:"export"`
}

// AnalysisConfig selects the metric and windowing applied to every run
type AnalysisConfig struct {
	Metric              string `yaml:"metric"`              // e.g. "power_draw" or "carbon_emission"
	WindowSize          int    `yaml:"windowSize"`          // Samples per window
	AggregationFunction string `yaml:"aggregationFunction"` // Window reduction to apply
}

// PathsConfig holds the input and output roots
type PathsConfig struct {
	RootInputPath  string `yaml:"rootInputPath"`  // Directory containing one subdirectory per run
	OutputRootPath string `yaml:"outputRootPath"` // Directory receiving plots and analysis logs
}

// ObservabilityConfig holds configuration for monitoring and debugging
type ObservabilityConfig struct {
	MetricsEnabled      bool   `yaml:"metricsEnabled"`
	MetricsPort         int    `yaml:"metricsPort"`
	MetricsTextfilePath string `yaml:"metricsTextfilePath"` // Written after the run for textfile collectors
	LogLevel            string `yaml:"logLevel"`
}

// ExportConfig holds optional result sinks
type ExportConfig struct {
	SQLite SQLiteConfig `yaml:"sqlite"`
	Influx InfluxConfig `yaml:"influx"`
}

// SQLiteConfig holds settings for the local results database
type SQLiteConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retentionDays"`
}

// InfluxConfig holds settings for shipping windows to InfluxDB
type InfluxConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Org     string        `yaml:"org"`
	Bucket  string        `yaml:"bucket"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file, environment
// variable or flag overrides a setting.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			AggregationFunction: "median",
		},
		Paths: PathsConfig{
			RootInputPath:  "./raw-output",
			OutputRootPath: "./simulation-analysis",
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: false,
			MetricsPort:    9090,
			LogLevel:       "info",
		},
		Export: ExportConfig{
			SQLite: SQLiteConfig{
				Path:          "analysis-results.db",
				RetentionDays: 90,
			},
			Influx: InfluxConfig{
				Timeout: 10 * time.Second,
			},
		},
	}
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if c.Analysis.Metric == "" {
		return fmt.Errorf("metric is required")
	}
	if c.Analysis.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if c.Analysis.AggregationFunction == "" {
		return fmt.Errorf("aggregation function is required")
	}

	if c.Paths.RootInputPath == "" {
		return fmt.Errorf("root input path is required")
	}
	if c.Paths.OutputRootPath == "" {
		return fmt.Errorf("output root path is required")
	}

	if c.Observability.MetricsEnabled {
		if c.Observability.MetricsPort <= 0 || c.Observability.MetricsPort > 65535 {
			return fmt.Errorf("metrics port %d out of range", c.Observability.MetricsPort)
		}
	}

	if c.Export.SQLite.Enabled {
		if c.Export.SQLite.Path == "" {
			return fmt.Errorf("sqlite export enabled but no database path set")
		}
		if c.Export.SQLite.RetentionDays < 0 {
			return fmt.Errorf("sqlite retention days must not be negative")
		}
	}

	if c.Export.Influx.Enabled {
		if err := c.validateInflux(); err != nil {
			return fmt.Errorf("invalid influx config: %v", err)
		}
	}

	return nil
}

func (c *Config) validateInflux() error {
	if c.Export.Influx.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Export.Influx.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.Export.Influx.Org == "" {
		return fmt.Errorf("org is required")
	}
	if c.Export.Influx.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Export.Influx.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
