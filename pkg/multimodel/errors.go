package multimodel

import "fmt"

// InvalidMetricError reports a metric name outside the supported set. It is
// raised before any run data is touched.
type InvalidMetricError struct {
	Name string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid metric %q: choose from %q or %q", e.Name, MetricPowerDraw, MetricCarbonEmission)
}

// RunLoadError reports a run whose host table is missing, malformed or
// unreadable. The first such run aborts the whole batch; there is no
// skip-and-continue.
type RunLoadError struct {
	RunDir string
	Err    error
}

func (e *RunLoadError) Error() string {
	return fmt.Sprintf("failed to load run %s: %v", e.RunDir, e.Err)
}

func (e *RunLoadError) Unwrap() error { return e.Err }

// MissingMetricColumnError reports a loaded table without a numeric column
// the aggregation needs: the metric itself, or the timestamp grouping key.
type MissingMetricColumnError struct {
	Run    string
	Column string
}

func (e *MissingMetricColumnError) Error() string {
	return fmt.Sprintf("run %s has no numeric column %q", e.Run, e.Column)
}

// InvalidWindowSizeError reports a non-positive window size.
type InvalidWindowSizeError struct {
	Size int
}

func (e *InvalidWindowSizeError) Error() string {
	return fmt.Sprintf("invalid window size %d: must be a positive element count", e.Size)
}

// EmptyDatasetError reports that there are no window values to scale or
// plot.
type EmptyDatasetError struct{}

func (e *EmptyDatasetError) Error() string {
	return "empty dataset: no window values to scale"
}
