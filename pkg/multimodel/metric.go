package multimodel

// Metric identifies which simulation output column is being analyzed.
type Metric string

const (
	// MetricPowerDraw is per-host power draw, reported in watts.
	MetricPowerDraw Metric = "power_draw"
	// MetricCarbonEmission is per-host carbon emission, reported in grams
	// of CO2.
	MetricCarbonEmission Metric = "carbon_emission"
)

// ResolveMetric validates name against the supported metrics and returns
// the matching Metric. Matching is exact: case-sensitive, no trimming.
// Anything else fails with InvalidMetricError.
func ResolveMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricPowerDraw, MetricCarbonEmission:
		return Metric(name), nil
	}
	return "", &InvalidMetricError{Name: name}
}

// Unit returns the metric's display unit: "W" for power draw, "gCO2" for
// carbon emission.
func (m Metric) Unit() string {
	switch m {
	case MetricPowerDraw:
		return "W"
	case MetricCarbonEmission:
		return "gCO2"
	}
	return ""
}

// Column returns the host table column holding the metric's per-host
// values.
func (m Metric) Column() string { return string(m) }

func (m Metric) String() string { return string(m) }
