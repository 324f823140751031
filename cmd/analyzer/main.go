package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/analysislog"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/clock"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/config"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/export/influx"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/export/sqlite"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/plot"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/preview"
)

// overrides collects the command line flags that win over the config file
// and environment
type overrides struct {
	metric      string
	windowSize  int
	aggregation string
	inputRoot   string
	outputRoot  string
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.metric != "" {
		cfg.Analysis.Metric = o.metric
	}
	if o.windowSize > 0 {
		cfg.Analysis.WindowSize = o.windowSize
	}
	if o.aggregation != "" {
		cfg.Analysis.AggregationFunction = o.aggregation
	}
	if o.inputRoot != "" {
		cfg.Paths.RootInputPath = o.inputRoot
	}
	if o.outputRoot != "" {
		cfg.Paths.OutputRootPath = o.outputRoot
	}
}

func main() {
	var (
		configPath   string
		o            overrides
		showPreview  bool
		previewWidth int
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&o.metric, "metric", "", "Metric to analyze (power_draw or carbon_emission)")
	flag.IntVar(&o.windowSize, "window-size", 0, "Number of samples per window")
	flag.StringVar(&o.aggregation, "aggregation", "", "Window aggregation function")
	flag.StringVar(&o.inputRoot, "input-root", "", "Directory containing one subdirectory per simulation run")
	flag.StringVar(&o.outputRoot, "output-root", "", "Directory receiving plots and analysis logs")
	flag.BoolVar(&showPreview, "preview", false, "Print a sparkline summary of the analysis to stdout")
	flag.IntVar(&previewWidth, "preview-width", 60, "Width of the sparkline preview in cells")
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		klog.ErrorS(err, "Failed to load configuration")
		os.Exit(1)
	}
	applyOverrides(cfg, o)
	if err := cfg.Validate(); err != nil {
		klog.ErrorS(err, "Invalid configuration")
		os.Exit(1)
	}

	klog.InfoS("Starting simulation analyzer",
		"metric", cfg.Analysis.Metric,
		"windowSize", cfg.Analysis.WindowSize,
		"inputRoot", cfg.Paths.RootInputPath,
		"outputRoot", cfg.Paths.OutputRootPath)

	// Serve build metrics while the analysis runs, for scrapes during
	// long analyses. The textfile dump below covers everything shorter.
	if cfg.Observability.MetricsEnabled {
		go serveMetrics(cfg.Observability.MetricsPort)
	}

	metric, err := multimodel.ResolveMetric(cfg.Analysis.Metric)
	if err != nil {
		klog.ErrorS(err, "Invalid metric")
		os.Exit(1)
	}

	// The analysis log exists from the moment an analysis starts
	logWriter := analysislog.NewWriter(cfg.Paths.OutputRootPath, clock.RealClock{})
	if _, err := logWriter.Touch(metric); err != nil {
		klog.ErrorS(err, "Failed to create analysis log")
		os.Exit(1)
	}

	mm, err := multimodel.Build(multimodel.Params{
		Metric:              cfg.Analysis.Metric,
		WindowSize:          cfg.Analysis.WindowSize,
		AggregationFunction: cfg.Analysis.AggregationFunction,
		InputRoot:           cfg.Paths.RootInputPath,
		Clock:               clock.RealClock{},
	})
	if err != nil {
		klog.ErrorS(err, "Analysis failed")
		os.Exit(1)
	}

	plotPath, err := plot.NewRenderer(cfg.Paths.OutputRootPath).Render(mm)
	if err != nil {
		klog.ErrorS(err, "Failed to render plot")
		os.Exit(1)
	}

	if err := logWriter.Append(mm); err != nil {
		klog.ErrorS(err, "Failed to append analysis summary")
		os.Exit(1)
	}

	// Export failures are logged but never discard the finished plot
	if cfg.Export.SQLite.Enabled {
		if err := saveResults(cfg, mm); err != nil {
			klog.ErrorS(err, "Failed to store analysis results")
		}
	}
	if cfg.Export.Influx.Enabled {
		if err := shipResults(cfg, mm); err != nil {
			klog.ErrorS(err, "Failed to ship analysis to influxdb")
		}
	}
	if cfg.Observability.MetricsTextfilePath != "" {
		if err := writeMetricsTextfile(cfg.Observability.MetricsTextfilePath); err != nil {
			klog.ErrorS(err, "Failed to write metrics textfile")
		}
	}

	if showPreview {
		out, err := preview.Render(mm, previewWidth)
		if err != nil {
			klog.ErrorS(err, "Failed to render preview")
		} else {
			fmt.Print(out)
		}
	}

	klog.InfoS("Analysis complete", "plot", plotPath, "runs", len(mm.Runs()))
}

func serveMetrics(port int) {
	addr := fmt.Sprintf(":%d", port)
	http.Handle("/metrics", promhttp.Handler())

	klog.V(1).InfoS("Starting metrics server", "addr", addr)
	if err := (&http.Server{Addr: addr}).ListenAndServe(); err != nil {
		klog.ErrorS(err, "Failed to start metrics server")
	}
}

func saveResults(cfg *config.Config, mm *multimodel.MultiModel) error {
	store, err := sqlite.NewStore(cfg.Export.SQLite.Path, clock.RealClock{})
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := persistAnalysis(store, cfg.Export.SQLite.RetentionDays, mm)
	if err != nil {
		return err
	}
	klog.InfoS("Stored analysis results", "id", id, "path", cfg.Export.SQLite.Path)
	return nil
}

// persistAnalysis writes the finished analysis through any result store
// and prunes expired rows when retention is configured.
func persistAnalysis(store sqlite.ResultStore, retentionDays int, mm *multimodel.MultiModel) (int64, error) {
	id, err := store.SaveAnalysis(mm)
	if err != nil {
		return 0, err
	}
	if retentionDays > 0 {
		if err := store.Cleanup(retentionDays); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func shipResults(cfg *config.Config, mm *multimodel.MultiModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Export.Influx.Timeout)
	defer cancel()

	writer, err := influx.NewWriter(ctx,
		cfg.Export.Influx.URL,
		cfg.Export.Influx.Token,
		cfg.Export.Influx.Org,
		cfg.Export.Influx.Bucket)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.WriteMultiModel(ctx, mm)
}

// writeMetricsTextfile dumps the build metrics in exposition format so a
// node exporter textfile collector can pick them up after the run.
func writeMetricsTextfile(path string) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics textfile: %v", err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %v", err)
		}
	}
	return nil
}
