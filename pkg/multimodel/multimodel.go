package multimodel

import (
	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/clock"
)

// Params are the construction parameters for one analysis: which metric to
// aggregate, how many points each window holds, the label naming the window
// reduction, and the root folder holding one subdirectory per simulation
// run.
type Params struct {
	Metric              string
	WindowSize          int
	AggregationFunction string
	InputRoot           string

	// Clock times the build; nil falls back to the real clock.
	Clock clock.Clock
}

// MultiModel is the finished windowed aggregation over every discovered
// run: the per-run aggregated series and their reduced forms, index-aligned
// in discovery order. A MultiModel is immutable once built; rendering and
// export only read from it.
type MultiModel struct {
	Metric      Metric
	Unit        string
	WindowSize  int
	Aggregation string
	Series      []RunSeries
	Reduced     []ReducedSeries
}

// Build runs the full pipeline: resolve the metric, validate the window
// parameters, load every run's host table, aggregate each table into a
// series and reduce each series into windows. The first failure aborts the
// whole build with its typed error; no partially built MultiModel is ever
// returned. Metric and window parameters are checked before any file I/O
// happens.
func Build(params Params) (*MultiModel, error) {
	clk := params.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	start := clk.Now()

	mm, err := build(params)
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	buildsTotal.WithLabelValues("success").Inc()
	buildDuration.Observe(clk.Since(start).Seconds())
	return mm, nil
}

func build(params Params) (*MultiModel, error) {
	metric, err := ResolveMetric(params.Metric)
	if err != nil {
		return nil, err
	}
	if params.WindowSize <= 0 {
		return nil, &InvalidWindowSizeError{Size: params.WindowSize}
	}

	label := params.AggregationFunction
	if label == "" {
		label = DefaultAggregationFunction
	}
	reducer, err := NewReducer(label)
	if err != nil {
		return nil, err
	}

	klog.InfoS("Computing windowed aggregation",
		"metric", metric,
		"windowSize", params.WindowSize,
		"inputRoot", params.InputRoot)

	tables, err := LoadRuns(params.InputRoot)
	if err != nil {
		return nil, err
	}
	runsLoaded.Set(float64(len(tables)))

	mm := &MultiModel{
		Metric:      metric,
		Unit:        metric.Unit(),
		WindowSize:  params.WindowSize,
		Aggregation: label,
		Series:      make([]RunSeries, 0, len(tables)),
		Reduced:     make([]ReducedSeries, 0, len(tables)),
	}

	for _, table := range tables {
		hostRowsRead.Add(float64(table.Rows()))

		series, err := Aggregate(table, metric)
		if err != nil {
			return nil, err
		}
		pointsAggregated.Add(float64(len(series.Points)))

		reduced, err := reducer.Reduce(series, params.WindowSize)
		if err != nil {
			return nil, err
		}

		klog.V(2).InfoS("Reduced run series",
			"run", series.Run,
			"points", len(series.Points),
			"windows", len(reduced.Values))

		mm.Series = append(mm.Series, series)
		mm.Reduced = append(mm.Reduced, reduced)
	}

	if bound, err := YAxisUpperBound(mm.Reduced); err == nil {
		yAxisUpperBound.WithLabelValues(metric.String()).Set(bound)
	}

	klog.InfoS("Computed windowed aggregation",
		"metric", metric,
		"runs", len(mm.Series))
	return mm, nil
}

// UpperBound returns the shared y-axis ceiling for the reduced series.
func (m *MultiModel) UpperBound() (float64, error) {
	return YAxisUpperBound(m.Reduced)
}

// Runs returns the run names in discovery order.
func (m *MultiModel) Runs() []string {
	runs := make([]string, len(m.Series))
	for i, s := range m.Series {
		runs[i] = s.Run
	}
	return runs
}
