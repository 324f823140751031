package influx

import (
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
)

func testModel() *multimodel.MultiModel {
	return &multimodel.MultiModel{
		Metric:      multimodel.MetricPowerDraw,
		Unit:        "W",
		WindowSize:  2,
		Aggregation: "median",
		Series: []multimodel.RunSeries{
			{Run: "model-a", Points: []multimodel.SeriesPoint{
				{Timestamp: 0, Value: 30}, {Timestamp: 1, Value: 30}, {Timestamp: 2, Value: 30},
			}},
			{Run: "model-b", Points: []multimodel.SeriesPoint{
				{Timestamp: 0, Value: 5}, {Timestamp: 1, Value: 15}, {Timestamp: 2, Value: 25},
			}},
		},
		Reduced: []multimodel.ReducedSeries{
			{Run: "model-a", Values: []float64{30, 30}},
			{Run: "model-b", Values: []float64{10, 25}},
		},
	}
}

func tagValue(p *write.Point, key string) string {
	for _, tag := range p.TagList() {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

func fieldValue(p *write.Point, key string) interface{} {
	for _, field := range p.FieldList() {
		if field.Key == key {
			return field.Value
		}
	}
	return nil
}

func TestPoints(t *testing.T) {
	points := Points(testModel())
	require.Len(t, points, 4)

	for _, p := range points {
		assert.Equal(t, Measurement, p.Name())
		assert.Equal(t, "power_draw", tagValue(p, "metric"))
		assert.Equal(t, "2", tagValue(p, "window_size"))
	}

	// model-a window 0 opens at simulation second 0
	first := points[0]
	assert.Equal(t, "model-a", tagValue(first, "run"))
	assert.Equal(t, "0", tagValue(first, "run_index"))
	assert.Equal(t, 30.0, fieldValue(first, "value"))
	assert.True(t, first.Time().Equal(time.Unix(0, 0).UTC()))

	// model-b window 1 opens at simulation second 2
	last := points[3]
	assert.Equal(t, "model-b", tagValue(last, "run"))
	assert.Equal(t, "1", tagValue(last, "run_index"))
	assert.Equal(t, 25.0, fieldValue(last, "value"))
	assert.Equal(t, int64(1), fieldValue(last, "window_index"))
	assert.True(t, last.Time().Equal(time.Unix(2, 0).UTC()))
}

func TestPointsEmptyRun(t *testing.T) {
	mm := &multimodel.MultiModel{
		Metric:     multimodel.MetricPowerDraw,
		WindowSize: 2,
		Series:     []multimodel.RunSeries{{Run: "model-a"}},
		Reduced:    []multimodel.ReducedSeries{{Run: "model-a"}},
	}

	assert.Empty(t, Points(mm))
}
