// Package tabular provides the flat-file artifact contract between
// pipeline stages: an in-memory table model plus a CSV-backed store
// with schema validation and full-file overwrite semantics.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an ordered set of rows under a fixed header. Column order is
// preserved end to end so artifacts stay diffable between runs.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New creates an empty table with the given header.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the header in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table carries the column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require fails with ErrSchema when any of the columns is absent.
// Column meaning cannot be guessed, so callers treat this as fatal.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}

// Append adds a row. The row must match the header width.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("%w: got %d cells, header has %d", ErrRowWidth, len(row), len(t.cols))
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

// AppendMap adds a row from a column->value map; absent columns become
// empty cells, unknown keys are ignored.
func (t *Table) AppendMap(m map[string]string) {
	row := make([]string, len(t.cols))
	for c, i := range t.index {
		row[i] = m[c]
	}
	t.rows = append(t.rows, row)
}

// Row returns the i-th row backing slice. Callers must not grow it.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Get returns the cell at (row, col), or "" when the column is absent.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[i][j]
}

// Set writes the cell at (row, col).
func (t *Table) Set(i int, col, val string) error {
	j, ok := t.index[col]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
	}
	t.rows[i][j] = val
	return nil
}

// Float parses the cell at (row, col) as a number. The second return
// is false for absent columns, empty cells, and unparseable values.
func (t *Table) Float(i int, col string) (float64, bool) {
	s := strings.TrimSpace(t.Get(i, col))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AddColumn extends the header with col, filling existing rows with
// fill. Adding an existing column is a no-op.
func (t *Table) AddColumn(col, fill string) {
	if t.Has(col) {
		return
	}
	t.index[col] = len(t.cols)
	t.cols = append(t.cols, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
}

// CopyRow appends the i-th row of src to t, matching cells by column
// name. Columns t carries but src does not become empty cells.
func (t *Table) CopyRow(src *Table, i int) {
	row := make([]string, len(t.cols))
	for c, j := range t.index {
		row[j] = src.Get(i, c)
	}
	t.rows = append(t.rows, row)
}
