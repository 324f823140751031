package multimodel

import (
	"math"
	"sort"
)

// TimestampColumn is the grouping key every host table must carry.
const TimestampColumn = "timestamp"

// Aggregate collapses one run's host table into a single series: rows are
// grouped by timestamp and the metric column is summed across all hosts
// sharing that timestamp. Only numeric columns take part, so label columns
// like host names drop out before grouping. The result is ordered by
// ascending timestamp with one point per distinct timestamp, independent of
// input row order.
func Aggregate(table *HostTable, metric Metric) (RunSeries, error) {
	series := RunSeries{Run: table.Run}
	if table.Rows() == 0 {
		return series, nil
	}

	timestamps, ok := table.NumericColumn(TimestampColumn)
	if !ok {
		return RunSeries{}, &MissingMetricColumnError{Run: table.Run, Column: TimestampColumn}
	}
	values, ok := table.NumericColumn(metric.Column())
	if !ok {
		return RunSeries{}, &MissingMetricColumnError{Run: table.Run, Column: metric.Column()}
	}

	sums := make(map[int64]float64, len(timestamps))
	for i, ts := range timestamps {
		if math.IsNaN(ts) {
			// Rows without a timestamp cannot be grouped.
			continue
		}
		key := int64(ts)
		if v := values[i]; !math.IsNaN(v) {
			sums[key] += v
		} else if _, seen := sums[key]; !seen {
			// A timestamp whose values are all null still yields a
			// point, summing to zero.
			sums[key] = 0
		}
	}

	keys := make([]int64, 0, len(sums))
	for ts := range sums {
		keys = append(keys, ts)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	series.Points = make([]SeriesPoint, len(keys))
	for i, ts := range keys {
		series.Points[i] = SeriesPoint{Timestamp: ts, Value: sums[ts]}
	}
	return series, nil
}
