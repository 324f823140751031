package multimodel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// YAxisUpperBound is the shared plot ceiling for a set of reduced series:
// the overall maximum window value plus 10% headroom. Every series must
// carry at least one value; an empty collection or an empty member fails
// with EmptyDatasetError rather than silently scaling to zero.
func YAxisUpperBound(reduced []ReducedSeries) (float64, error) {
	if len(reduced) == 0 {
		return 0, &EmptyDatasetError{}
	}

	overall := math.Inf(-1)
	for _, series := range reduced {
		if len(series.Values) == 0 {
			return 0, &EmptyDatasetError{}
		}
		if max := floats.Max(series.Values); max > overall {
			overall = max
		}
	}
	return overall * 1.1, nil
}
