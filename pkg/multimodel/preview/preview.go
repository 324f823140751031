// Package preview renders a compact terminal summary of an analysis, one
// sparkline per run. All sparklines share the plot's y-axis ceiling so the
// runs stay comparable at a glance.
package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
)

const defaultWidth = 60

var blocks = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	sparkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7AF"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
)

// Sparkline renders vals scaled against ceiling into width cells
func Sparkline(vals []float64, ceiling float64, width int) string {
	if len(vals) == 0 || width <= 0 {
		return ""
	}
	// sample evenly over the values
	step := float64(len(vals)) / float64(width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		idx := int(math.Min(float64(len(vals)-1), math.Floor(float64(i)*step)))
		v := 0.0
		if ceiling > 0 {
			v = clamp01(vals[idx] / ceiling)
		}
		level := int(math.Round(v * float64(len(blocks)-1)))
		if level < 0 {
			level = 0
		}
		if level > len(blocks)-1 {
			level = len(blocks) - 1
		}
		b.WriteRune(blocks[level])
	}
	return b.String()
}

// Render returns the terminal summary of a finished analysis
func Render(mm *multimodel.MultiModel, width int) (string, error) {
	bound, err := mm.UpperBound()
	if err != nil {
		return "", err
	}
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s [%s]", mm.Metric, mm.Unit)))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  window_size=%d aggregation=%s y_max=%.1f",
		mm.WindowSize, mm.Aggregation, bound)))
	b.WriteString("\n")

	for i, reduced := range mm.Reduced {
		cells := width
		if len(reduced.Values) < cells {
			cells = len(reduced.Values)
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%3d ", i)))
		b.WriteString(sparkStyle.Render(Sparkline(reduced.Values, bound, cells)))
		b.WriteString(faintStyle.Render(fmt.Sprintf(" %s max=%.1f", reduced.Run, floats.Max(reduced.Values))))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
