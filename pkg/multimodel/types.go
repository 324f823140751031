package multimodel

// SeriesPoint is one aggregated observation: the metric summed across all
// hosts of a run at one timestamp.
type SeriesPoint struct {
	Timestamp int64
	Value     float64
}

// RunSeries is one run's aggregated series, ordered by strictly increasing
// timestamp with exactly one value per timestamp.
type RunSeries struct {
	Run    string
	Points []SeriesPoint
}

// Values returns the aggregated values in series order.
func (s RunSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// ReducedSeries is a run's series after windowed reduction: one value per
// window, in window order.
type ReducedSeries struct {
	Run    string
	Values []float64
}

// Reducer turns a run's aggregated series into its windowed form. Reducers
// are selected by the aggregation label carried in configuration, see
// NewReducer.
type Reducer interface {
	Reduce(series RunSeries, windowSize int) (ReducedSeries, error)
}
