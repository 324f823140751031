package multimodel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"k8s.io/klog/v2"
)

// Each run keeps its per-host table at this fixed path inside the run
// directory.
const (
	hostTableSeedDir  = "seed=0"
	hostTableFileName = "host.parquet"
)

// DiscoverRuns returns the run directories under root in enumeration order.
// That order is the canonical run order everywhere downstream: series,
// reduced series, legend indexes and export indexes all follow it.
func DiscoverRuns(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read input root %s: %v", root, err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, filepath.Join(root, entry.Name()))
		}
	}
	return runs, nil
}

// LoadRuns discovers every run under root and loads each run's host table.
// A single missing or unreadable table aborts the whole batch with a
// RunLoadError naming that run directory.
func LoadRuns(root string) ([]*HostTable, error) {
	runs, err := DiscoverRuns(root)
	if err != nil {
		return nil, err
	}

	tables := make([]*HostTable, 0, len(runs))
	for _, run := range runs {
		table, err := loadHostTable(run)
		if err != nil {
			return nil, &RunLoadError{RunDir: run, Err: err}
		}
		klog.V(2).InfoS("Loaded host table",
			"run", run,
			"rows", table.Rows(),
			"columns", table.ColumnNames())
		tables = append(tables, table)
	}
	return tables, nil
}

func loadHostTable(runDir string) (*HostTable, error) {
	path := filepath.Join(runDir, hostTableSeedDir, hostTableFileName)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open host table: %v", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat host table: %v", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse host table: %v", err)
	}

	table := newHostTable(filepath.Base(runDir), pf.Schema())
	for _, rowGroup := range pf.RowGroups() {
		if err := appendRowGroup(table, rowGroup); err != nil {
			return nil, fmt.Errorf("failed to read host table rows: %v", err)
		}
	}
	return table, nil
}

func appendRowGroup(table *HostTable, rowGroup parquet.RowGroup) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 128)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			table.appendRow(row)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}
