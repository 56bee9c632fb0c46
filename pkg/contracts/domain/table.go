package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one table record, positionally aligned with Table.Columns
type Row []Value

// Table is an ordered sequence of rows sharing a fixed set of named columns.
// Stages never modify a table they received; they Clone it first.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	index map[string]int
}

// NewTable creates an empty table with the given columns
func NewTable(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, exists := t.index[c]; !exists {
			t.index[c] = i
		}
	}
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil || len(t.index) != len(t.Columns) {
		t.reindex()
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// RequireColumns returns the names from required that the table lacks
func (t *Table) RequireColumns(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Get returns the value at the given row and column. Unknown columns and
// short rows read as Null.
func (t *Table) Get(row int, column string) Value {
	i, ok := t.ColumnIndex(column)
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return NullValue()
	}
	return t.Rows[row][i]
}

// Column returns a copy of all values in the named column
func (t *Table) Column(name string) []Value {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	values := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			values[r] = row[i]
		}
	}
	return values
}

// AppendRow appends a row, padding or truncating it to the column count
func (t *Table) AppendRow(row Row) {
	t.Rows = append(t.Rows, fitRow(row, len(t.Columns)))
}

// SetColumn replaces the named column, or appends it when absent.
// values must hold one entry per row.
func (t *Table) SetColumn(name string, values []Value) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	i, ok := t.ColumnIndex(name)
	if !ok {
		t.Columns = append(t.Columns, name)
		t.reindex()
		i = len(t.Columns) - 1
	}
	for r := range t.Rows {
		t.Rows[r] = fitRow(t.Rows[r], len(t.Columns))
		t.Rows[r][i] = values[r]
	}
	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := NewTable(t.Name, t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		c.Rows[i] = append(Row(nil), row...)
	}
	return c
}

// IsEmptyRow reports whether every value in the row is Null
func IsEmptyRow(row Row) bool {
	for _, v := range row {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

// KeyOf builds a composite map key for the given values. It reports false
// when any value is Null.
func KeyOf(values ...Value) (string, bool) {
	var b strings.Builder
	for i, v := range values {
		if v.IsNull() {
			return "", false
		}
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(v.key())
	}
	return b.String(), true
}

func fitRow(row Row, width int) Row {
	switch {
	case len(row) == width:
		return row
	case len(row) > width:
		return row[:width]
	default:
		padded := make(Row, width)
		copy(padded, row)
		return padded
	}
}

func formatKeyFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
