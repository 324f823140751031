package multimodel

import (
	"math"

	"github.com/parquet-go/parquet-go"
)

// Column is one column of a host table. Numeric columns (parquet INT32,
// INT64, FLOAT, DOUBLE) hold float64 values; every other physical type is
// kept as display labels and never takes part in aggregation.
type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Labels  []string
}

func (c *Column) append(v parquet.Value) {
	if c.Numeric {
		c.Floats = append(c.Floats, numericValue(v))
		return
	}
	if v.IsNull() {
		c.Labels = append(c.Labels, "")
		return
	}
	c.Labels = append(c.Labels, v.String())
}

// numericValue widens any numeric parquet value to float64. Nulls and
// non-numeric kinds come back as NaN so they drop out of summation.
func numericValue(v parquet.Value) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	switch v.Kind() {
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	}
	return math.NaN()
}

// HostTable is one run's per-host table, loaded whole into column order.
// Tables are read-only after load.
type HostTable struct {
	Run     string
	Columns []*Column
	rows    int
}

// newHostTable builds the column skeleton for a parquet schema, one column
// per leaf in schema leaf order so row values route directly by their
// column ordinal. Group fields flatten to dotted names like "meta.slot".
func newHostTable(run string, schema *parquet.Schema) *HostTable {
	t := &HostTable{Run: run}
	t.appendLeafColumns("", schema.Fields())
	return t
}

func (t *HostTable) appendLeafColumns(prefix string, fields []parquet.Field) {
	for _, field := range fields {
		name := field.Name()
		if prefix != "" {
			name = prefix + "." + name
		}
		if !field.Leaf() {
			t.appendLeafColumns(name, field.Fields())
			continue
		}
		numeric := false
		switch field.Type().Kind() {
		case parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
			numeric = true
		}
		t.Columns = append(t.Columns, &Column{Name: name, Numeric: numeric})
	}
}

func (t *HostTable) appendRow(row parquet.Row) {
	for _, v := range row {
		t.Columns[v.Column()].append(v)
	}
	t.rows++
}

// Rows returns the number of loaded rows.
func (t *HostTable) Rows() int { return t.rows }

// NumericColumn returns the named column's values when it exists and is
// numeric. Label columns are invisible here, which is what restricts
// aggregation to numeric data.
func (t *HostTable) NumericColumn(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name && c.Numeric {
			return c.Floats, true
		}
	}
	return nil, false
}

// ColumnNames returns all column names in table order.
func (t *HostTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
