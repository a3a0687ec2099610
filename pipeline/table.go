package pipeline

import (
	"slices"
)

// Row maps column name to cell. A missing column reads as null.
type Row map[string]Value

// Get returns the cell for col, or null.
func (r Row) Get(col string) Value {
	return r[col]
}

// Table is a set of rows under an explicit, declared column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether col is part of the declared column set.
func (t *Table) HasColumn(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Records returns every row as cells in column order.
func (t *Table) Records() [][]Value {
	out := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]Value, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = row.Get(col)
		}
		out[i] = cells
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		nr := make(Row, len(row))
		for k, v := range row {
			nr[k] = v
		}
		c.Rows[i] = nr
	}
	return c
}
