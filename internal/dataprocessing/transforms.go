package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"logisticsprep/pkg/contracts/domain"
)

// TransformFunc maps one cell to its cleaned value. Returning Null for a
// non-null input counts as a coercion.
type TransformFunc func(domain.Value) domain.Value

// ColumnTransform binds a transform to a column
type ColumnTransform struct {
	Column string
	Fn     TransformFunc
}

// DerivedColumn computes a new column from the row being cleaned. Derived
// columns are added in order, so later ones can read earlier ones.
type DerivedColumn struct {
	Column string
	Fn     func(t *domain.Table, row int) domain.Value
}

// TrimSpace strips leading and trailing whitespace from strings
func TrimSpace(v domain.Value) domain.Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}
	return domain.StringValue(strings.TrimSpace(s))
}

// ParseDate returns a transform parsing strings with layout. Unparseable
// text becomes Null.
func ParseDate(layout string) TransformFunc {
	return func(v domain.Value) domain.Value {
		if v.Kind() == domain.KindDate || v.IsNull() {
			return v
		}
		s, ok := v.AsString()
		if !ok {
			return domain.NullValue()
		}
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err != nil {
			return domain.NullValue()
		}
		return domain.DateValue(t)
	}
}

// ToNumber coerces text to an Int when it is integral and to a Float
// otherwise. Unparseable text becomes Null.
func ToNumber(v domain.Value) domain.Value {
	if v.IsNumeric() || v.IsNull() {
		return v
	}
	s, ok := v.AsString()
	if !ok {
		return domain.NullValue()
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return domain.IntValue(i)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.NullValue()
	}
	return domain.FloatValue(f)
}

// ToFloat coerces text and integers to a Float. Unparseable text becomes Null.
func ToFloat(v domain.Value) domain.Value {
	n := ToNumber(v)
	f, ok := n.AsFloat()
	if !ok {
		return domain.NullValue()
	}
	return domain.FloatValue(f)
}

// FillNull replaces missing values with fill
func FillNull(fill domain.Value) TransformFunc {
	return func(v domain.Value) domain.Value {
		if v.IsNull() {
			return fill
		}
		return v
	}
}

// applyTransforms runs transforms over a copy of source and reports, per
// column, how many values were coerced to Null.
func applyTransforms(source *domain.Table, transforms []ColumnTransform) (*domain.Table, map[string]int) {
	table := source.Clone()
	coerced := make(map[string]int)

	for _, tr := range transforms {
		idx, ok := table.ColumnIndex(tr.Column)
		if !ok {
			continue
		}
		for r, row := range table.Rows {
			before := row[idx]
			after := tr.Fn(before)
			if !before.IsNull() && after.IsNull() {
				coerced[tr.Column]++
			}
			table.Rows[r][idx] = after
		}
	}

	return table, coerced
}

// applyDerived appends the derived columns to table in order
func applyDerived(table *domain.Table, derived []DerivedColumn) error {
	for _, d := range derived {
		values := make([]domain.Value, table.Len())
		for r := range table.Rows {
			values[r] = d.Fn(table, r)
		}
		if err := table.SetColumn(d.Column, values); err != nil {
			return err
		}
	}
	return nil
}

// dateField derives a calendar field from a date column; Null dates yield Null
func dateField(column string, field func(time.Time) domain.Value) func(*domain.Table, int) domain.Value {
	return func(t *domain.Table, row int) domain.Value {
		d, ok := t.Get(row, column).AsTime()
		if !ok {
			return domain.NullValue()
		}
		return field(d)
	}
}

// equalsLiteral derives a flag that is true when a text column equals literal
func equalsLiteral(column, literal string) func(*domain.Table, int) domain.Value {
	return func(t *domain.Table, row int) domain.Value {
		s, ok := t.Get(row, column).AsString()
		return domain.BoolValue(ok && s == literal)
	}
}

// daysBetween returns whole days from start to end, negative when end
// precedes start
func daysBetween(start, end time.Time) int64 {
	return int64(math.Round(end.Sub(start).Hours() / 24))
}

func monthAbbrev(m time.Month) string {
	return m.String()[:3]
}

func quarterOf(m time.Month) int64 {
	return int64((int(m)-1)/3 + 1)
}
