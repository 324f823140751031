package multimodel

import "github.com/prometheus/client_golang/prometheus"

// Pipeline metrics, registered with the default registry so binaries can
// expose or snapshot them without extra wiring.
var (
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multimodel_builds_total",
			Help: "Number of windowed-aggregation builds by outcome",
		},
		[]string{"outcome"},
	)

	runsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "multimodel_runs_loaded",
			Help: "Simulation runs loaded by the most recent build",
		},
	)

	hostRowsRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multimodel_host_rows_read_total",
			Help: "Host table rows read across all builds",
		},
	)

	pointsAggregated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multimodel_points_aggregated_total",
			Help: "Series points produced by timestamp grouping across all builds",
		},
	)

	buildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "multimodel_build_duration_seconds",
			Help:    "Wall time of complete windowed-aggregation builds",
			Buckets: prometheus.DefBuckets,
		},
	)

	yAxisUpperBound = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "multimodel_y_axis_upper_bound",
			Help: "Shared plot ceiling computed by the most recent build",
		},
		[]string{"metric"},
	)
)

func init() {
	prometheus.MustRegister(
		buildsTotal,
		runsLoaded,
		hostRowsRead,
		pointsAggregated,
		buildDuration,
		yAxisUpperBound,
	)
}
