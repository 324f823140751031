package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Analysis.Metric = "power_draw"
	cfg.Analysis.WindowSize = 10
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing metric",
			mutate:  func(c *Config) { c.Analysis.Metric = "" },
			wantErr: true,
		},
		{
			name:    "zero window size",
			mutate:  func(c *Config) { c.Analysis.WindowSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative window size",
			mutate:  func(c *Config) { c.Analysis.WindowSize = -5 },
			wantErr: true,
		},
		{
			name:    "missing aggregation function",
			mutate:  func(c *Config) { c.Analysis.AggregationFunction = "" },
			wantErr: true,
		},
		{
			name:    "missing input root",
			mutate:  func(c *Config) { c.Paths.RootInputPath = "" },
			wantErr: true,
		},
		{
			name:    "missing output root",
			mutate:  func(c *Config) { c.Paths.OutputRootPath = "" },
			wantErr: true,
		},
		{
			name: "metrics port out of range",
			mutate: func(c *Config) {
				c.Observability.MetricsEnabled = true
				c.Observability.MetricsPort = 0
			},
			wantErr: true,
		},
		{
			name: "metrics port ignored when disabled",
			mutate: func(c *Config) {
				c.Observability.MetricsEnabled = false
				c.Observability.MetricsPort = 0
			},
		},
		{
			name: "sqlite enabled without path",
			mutate: func(c *Config) {
				c.Export.SQLite.Enabled = true
				c.Export.SQLite.Path = ""
			},
			wantErr: true,
		},
		{
			name: "sqlite negative retention",
			mutate: func(c *Config) {
				c.Export.SQLite.Enabled = true
				c.Export.SQLite.RetentionDays = -1
			},
			wantErr: true,
		},
		{
			name: "sqlite valid",
			mutate: func(c *Config) {
				c.Export.SQLite.Enabled = true
			},
		},
		{
			name: "influx enabled without url",
			mutate: func(c *Config) {
				c.Export.Influx.Enabled = true
				c.Export.Influx.Token = "secret"
				c.Export.Influx.Org = "lab"
				c.Export.Influx.Bucket = "analysis"
			},
			wantErr: true,
		},
		{
			name: "influx enabled without token",
			mutate: func(c *Config) {
				c.Export.Influx.Enabled = true
				c.Export.Influx.URL = "http://localhost:8086"
				c.Export.Influx.Org = "lab"
				c.Export.Influx.Bucket = "analysis"
			},
			wantErr: true,
		},
		{
			name: "influx zero timeout",
			mutate: func(c *Config) {
				c.Export.Influx.Enabled = true
				c.Export.Influx.URL = "http://localhost:8086"
				c.Export.Influx.Token = "secret"
				c.Export.Influx.Org = "lab"
				c.Export.Influx.Bucket = "analysis"
				c.Export.Influx.Timeout = 0
			},
			wantErr: true,
		},
		{
			name: "influx valid",
			mutate: func(c *Config) {
				c.Export.Influx.Enabled = true
				c.Export.Influx.URL = "http://localhost:8086"
				c.Export.Influx.Token = "secret"
				c.Export.Influx.Org = "lab"
				c.Export.Influx.Bucket = "analysis"
				c.Export.Influx.Timeout = 5 * time.Second
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultRequiresAnalysisSettings(t *testing.T) {
	// Defaults alone are not runnable: metric and window size must come
	// from a file, the environment or flags.
	if err := Default().Validate(); err == nil {
		t.Fatal("Default().Validate() expected error")
	}
}
