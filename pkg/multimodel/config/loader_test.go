package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Analysis.Metric != "" {
		t.Errorf("default metric = %q, want empty", cfg.Analysis.Metric)
	}
	if cfg.Analysis.AggregationFunction != "median" {
		t.Errorf("default aggregation = %q, want median", cfg.Analysis.AggregationFunction)
	}
	if cfg.Paths.RootInputPath != "./raw-output" {
		t.Errorf("default input root = %q, want ./raw-output", cfg.Paths.RootInputPath)
	}
	if cfg.Paths.OutputRootPath != "./simulation-analysis" {
		t.Errorf("default output root = %q, want ./simulation-analysis", cfg.Paths.OutputRootPath)
	}
	if cfg.Export.SQLite.RetentionDays != 90 {
		t.Errorf("default retention = %d, want 90", cfg.Export.SQLite.RetentionDays)
	}
	if cfg.Export.Influx.Timeout != 10*time.Second {
		t.Errorf("default influx timeout = %v, want 10s", cfg.Export.Influx.Timeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
analysis:
  metric: carbon_emission
  windowSize: 25
paths:
  rootInputPath: /data/raw-output
export:
  sqlite:
    enabled: true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Analysis.Metric != "carbon_emission" {
		t.Errorf("metric = %q, want carbon_emission", cfg.Analysis.Metric)
	}
	if cfg.Analysis.WindowSize != 25 {
		t.Errorf("window size = %d, want 25", cfg.Analysis.WindowSize)
	}
	if cfg.Paths.RootInputPath != "/data/raw-output" {
		t.Errorf("input root = %q, want /data/raw-output", cfg.Paths.RootInputPath)
	}

	// Settings absent from the file keep their defaults
	if cfg.Paths.OutputRootPath != "./simulation-analysis" {
		t.Errorf("output root = %q, want default", cfg.Paths.OutputRootPath)
	}
	if !cfg.Export.SQLite.Enabled {
		t.Error("sqlite export should be enabled")
	}
	if cfg.Export.SQLite.Path != "analysis-results.db" {
		t.Errorf("sqlite path = %q, want default", cfg.Export.SQLite.Path)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
analysis:
  metric: carbon_emission
  windowSize: 25
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("ANALYZER_METRIC", "power_draw")
	t.Setenv("ANALYZER_WINDOW_SIZE", "100")
	t.Setenv("ANALYZER_INFLUX_TIMEOUT", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Analysis.Metric != "power_draw" {
		t.Errorf("metric = %q, want power_draw", cfg.Analysis.Metric)
	}
	if cfg.Analysis.WindowSize != 100 {
		t.Errorf("window size = %d, want 100", cfg.Analysis.WindowSize)
	}
	if cfg.Export.Influx.Timeout != 30*time.Second {
		t.Errorf("influx timeout = %v, want 30s", cfg.Export.Influx.Timeout)
	}
}

func TestLoadInvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("ANALYZER_WINDOW_SIZE", "lots")
	t.Setenv("ANALYZER_SQLITE_ENABLED", "definitely")
	t.Setenv("ANALYZER_INFLUX_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Analysis.WindowSize != 0 {
		t.Errorf("window size = %d, want 0", cfg.Analysis.WindowSize)
	}
	if cfg.Export.SQLite.Enabled {
		t.Error("sqlite export should stay disabled")
	}
	if cfg.Export.Influx.Timeout != 10*time.Second {
		t.Errorf("influx timeout = %v, want 10s", cfg.Export.Influx.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("analysis: [not, a, mapping"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for malformed file")
	}
}
