// Package analysislog maintains the analysis.txt file kept next to each
// metric's plots. The file is created as soon as an analysis starts and
// receives one summary line per finished analysis, so repeated analyses of
// the same metric accumulate a history.
package analysislog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"k8s.io/klog/v2"

	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel"
	"github.com/elevated-systems/simulation-analyzer/pkg/multimodel/clock"
)

// FileName is the log file kept in each metric's output directory
const FileName = "analysis.txt"

// Writer appends analysis summaries under a fixed output root
type Writer struct {
	outputRoot string
	clock      clock.Clock
}

// NewWriter creates a Writer rooted at outputRoot. A nil clock falls back
// to the real one.
func NewWriter(outputRoot string, clk clock.Clock) *Writer {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Writer{outputRoot: outputRoot, clock: clk}
}

// Touch creates <outputRoot>/<metric>/analysis.txt if it does not exist yet
// and returns its path. Existing content is left alone.
func (w *Writer) Touch(metric multimodel.Metric) (string, error) {
	dir := filepath.Join(w.outputRoot, metric.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create analysis log: %v", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close analysis log: %v", err)
	}
	return path, nil
}

// Append writes one summary line for a finished analysis
func (w *Writer) Append(mm *multimodel.MultiModel) error {
	bound, err := mm.UpperBound()
	if err != nil {
		return err
	}

	path, err := w.Touch(mm.Metric)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open analysis log: %v", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s metric=%s window_size=%d aggregation=%s runs=%d y_axis_upper_bound=%.3f\n",
		w.clock.Now().UTC().Format(time.RFC3339),
		mm.Metric,
		mm.WindowSize,
		mm.Aggregation,
		len(mm.Reduced),
		bound)
	if err != nil {
		return fmt.Errorf("failed to append analysis summary: %v", err)
	}

	klog.V(2).InfoS("Appended analysis summary", "path", path)
	return nil
}
