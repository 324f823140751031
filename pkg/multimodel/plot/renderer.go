// Package plot renders a MultiModel as a single PNG with one line per run,
// all sharing the zero-based window index on the x axis and a common y axis
// ceiling so runs stay visually comparable.
package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
)

const (
	plotWidth  = 30 * vg.Inch
	plotHeight = 10 * vg.Inch
)

// Renderer writes multi-model plots under a fixed output root, one
// subdirectory per metric.
type Renderer struct {
	outputRoot string
}

// NewRenderer creates a Renderer rooted at outputRoot
func NewRenderer(outputRoot string) *Renderer {
	return &Renderer{outputRoot: outputRoot}
}

// Render draws every reduced series as one line and writes the PNG to
// <outputRoot>/<metric>/multimodel_metric=<metric>_window_size=<n>.png,
// returning the written path.
func (r *Renderer) Render(mm *multimodel.MultiModel) (string, error) {
	bound, err := mm.UpperBound()
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = mm.Metric.String()
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = fmt.Sprintf("%s [%s]", mm.Metric, mm.Unit)
	p.Y.Min = 0
	p.Y.Max = bound
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, reduced := range mm.Reduced {
		pts := make(plotter.XYs, len(reduced.Values))
		for j, v := range reduced.Values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("failed to build line for run %s: %v", reduced.Run, err)
		}
		line.LineStyle.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(strconv.Itoa(i), line)
	}

	dir := filepath.Join(r.outputRoot, mm.Metric.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("multimodel_metric=%s_window_size=%d.png", mm.Metric, mm.WindowSize))
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %v", err)
	}

	klog.V(2).InfoS("Rendered multi-model plot",
		"path", path,
		"runs", len(mm.Reduced),
		"yAxisUpperBound", bound)
	return path, nil
}
