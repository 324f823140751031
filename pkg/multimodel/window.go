package multimodel

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// DefaultAggregationFunction is the label configurations use to select the
// window reduction. Historical analysis configs call it "median", but the
// computation selected has always been the arithmetic mean of each window;
// both are kept as-is so existing configs and previously published plots
// stay comparable.
// TODO: decide whether "median" should grow a true median reduction or be
// renamed "mean"; either choice changes published plots.
const DefaultAggregationFunction = "median"

// NewReducer returns the window reducer registered under label. Only
// DefaultAggregationFunction is accepted.
func NewReducer(label string) (Reducer, error) {
	if label != DefaultAggregationFunction {
		return nil, fmt.Errorf("unsupported aggregation function %q: only %q is available", label, DefaultAggregationFunction)
	}
	return meanOfChunks{}, nil
}

// meanOfChunks splits a series into contiguous windows of windowSize
// elements (the last window keeps the remainder, between 1 and windowSize
// elements) and reduces each window to its arithmetic mean.
type meanOfChunks struct{}

func (meanOfChunks) Reduce(series RunSeries, windowSize int) (ReducedSeries, error) {
	if windowSize <= 0 {
		return ReducedSeries{}, &InvalidWindowSizeError{Size: windowSize}
	}

	reduced := ReducedSeries{Run: series.Run}
	if len(series.Points) == 0 {
		return reduced, nil
	}

	values := series.Values()
	reduced.Values = make([]float64, 0, (len(values)+windowSize-1)/windowSize)
	for start := 0; start < len(values); start += windowSize {
		end := start + windowSize
		if end > len(values) {
			end = len(values)
		}
		reduced.Values = append(reduced.Values, stat.Mean(values[start:end], nil))
	}
	return reduced, nil
}

// Reduce applies the default chunked-mean reduction to one series. Runs are
// reduced independently of each other.
func Reduce(series RunSeries, windowSize int) (ReducedSeries, error) {
	return meanOfChunks{}.Reduce(series, windowSize)
}
