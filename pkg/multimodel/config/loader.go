package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

// Load builds a Config from defaults, an optional YAML file and
// ANALYZER_* environment variables, in that order of precedence.
// Validation is deferred to the caller so command line flags can still
// override individual settings afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	applyEnv(cfg)

	klog.V(2).InfoS("Loaded configuration",
		"metric", cfg.Analysis.Metric,
		"windowSize", cfg.Analysis.WindowSize,
		"rootInputPath", cfg.Paths.RootInputPath,
		"outputRootPath", cfg.Paths.OutputRootPath,
		"sqliteEnabled", cfg.Export.SQLite.Enabled,
		"influxEnabled", cfg.Export.Influx.Enabled)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Analysis.Metric = getEnvOrDefault("ANALYZER_METRIC", cfg.Analysis.Metric)
	cfg.Analysis.WindowSize = getIntOrDefault("ANALYZER_WINDOW_SIZE", cfg.Analysis.WindowSize)
	cfg.Analysis.AggregationFunction = getEnvOrDefault("ANALYZER_AGGREGATION_FUNCTION", cfg.Analysis.AggregationFunction)

	cfg.Paths.RootInputPath = getEnvOrDefault("ANALYZER_INPUT_ROOT", cfg.Paths.RootInputPath)
	cfg.Paths.OutputRootPath = getEnvOrDefault("ANALYZER_OUTPUT_ROOT", cfg.Paths.OutputRootPath)

	cfg.Observability.MetricsEnabled = getBoolOrDefault("ANALYZER_METRICS_ENABLED", cfg.Observability.MetricsEnabled)
	cfg.Observability.MetricsPort = getIntOrDefault("ANALYZER_METRICS_PORT", cfg.Observability.MetricsPort)
	cfg.Observability.MetricsTextfilePath = getEnvOrDefault("ANALYZER_METRICS_TEXTFILE", cfg.Observability.MetricsTextfilePath)
	cfg.Observability.LogLevel = getEnvOrDefault("ANALYZER_LOG_LEVEL", cfg.Observability.LogLevel)

	cfg.Export.SQLite.Enabled = getBoolOrDefault("ANALYZER_SQLITE_ENABLED", cfg.Export.SQLite.Enabled)
	cfg.Export.SQLite.Path = getEnvOrDefault("ANALYZER_SQLITE_PATH", cfg.Export.SQLite.Path)
	cfg.Export.SQLite.RetentionDays = getIntOrDefault("ANALYZER_SQLITE_RETENTION_DAYS", cfg.Export.SQLite.RetentionDays)

	cfg.Export.Influx.Enabled = getBoolOrDefault("ANALYZER_INFLUX_ENABLED", cfg.Export.Influx.Enabled)
	cfg.Export.Influx.URL = getEnvOrDefault("ANALYZER_INFLUX_URL", cfg.Export.Influx.URL)
	cfg.Export.Influx.Token = getEnvOrDefault("ANALYZER_INFLUX_TOKEN", cfg.Export.Influx.Token)
	cfg.Export.Influx.Org = getEnvOrDefault("ANALYZER_INFLUX_ORG", cfg.Export.Influx.Org)
	cfg.Export.Influx.Bucket = getEnvOrDefault("ANALYZER_INFLUX_BUCKET", cfg.Export.Influx.Bucket)
	cfg.Export.Influx.Timeout = getDurationOrDefault("ANALYZER_INFLUX_TIMEOUT", cfg.Export.Influx.Timeout)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.Atoi(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid integer value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if strValue := os.Getenv(key); strValue != "" {
		value, err := strconv.ParseBool(strValue)
		if err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid boolean value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := time.ParseDuration(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid duration value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}
