// Package influx ships reduced window values to an InfluxDB v2 bucket so
// analyses can be explored in dashboards alongside live telemetry.
package influx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
)

// Measurement holds one reduced window value per point
const Measurement = "multimodel_window"

// Writer represents an InfluxDB v2 export target
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewWriter initializes the InfluxDB v2 client and verifies connectivity
func NewWriter(ctx context.Context, url, token, org, bucket string) (*Writer, error) {
	client := influxdb2.NewClient(url, token)

	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to influxdb: %v", err)
	}

	return &Writer{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
	}, nil
}

// Points builds one point per reduced window value. The point time is the
// simulation timestamp opening the window, so windows of one run stay
// distinct; the window size rides along as a tag to keep analyses with
// different windowing from overwriting each other.
func Points(mm *multimodel.MultiModel) []*write.Point {
	var points []*write.Point
	for runIndex, reduced := range mm.Reduced {
		series := mm.Series[runIndex]
		for windowIndex, value := range reduced.Values {
			start := series.Points[windowIndex*mm.WindowSize].Timestamp

			points = append(points, write.NewPoint(
				Measurement,
				map[string]string{
					"metric":      mm.Metric.String(),
					"run":         reduced.Run,
					"run_index":   strconv.Itoa(runIndex),
					"window_size": strconv.Itoa(mm.WindowSize),
				},
				map[string]interface{}{
					"value":        value,
					"window_index": windowIndex,
				},
				time.Unix(start, 0).UTC(),
			))
		}
	}
	return points
}

// WriteMultiModel writes every reduced window value of the analysis
func (w *Writer) WriteMultiModel(ctx context.Context, mm *multimodel.MultiModel) error {
	points := Points(mm)
	if len(points) == 0 {
		return nil
	}

	if err := w.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("failed to write analysis points: %v", err)
	}

	klog.V(2).InfoS("Wrote analysis to influxdb",
		"measurement", Measurement,
		"points", len(points))
	return nil
}

// Close closes the InfluxDB client
func (w *Writer) Close() {
	w.client.Close()
}
