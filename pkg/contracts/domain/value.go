package domain

import (
	"math"
	"strings"
	"time"
)

// Kind identifies the type held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a single table cell. The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// NullValue returns a missing value
func NullValue() Value {
	return Value{}
}

// StringValue wraps a string
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue wraps an integer
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue wraps a float. NaN is stored as Null.
func FloatValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, f: f}
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// DateValue wraps a calendar date, normalized to midnight UTC
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Kind returns the kind of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is missing
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns the string payload
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the numeric payload; integers are widened
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsTime returns the date payload
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// IsNumeric reports whether the value is an Int or a Float
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Equal reports exact value equality. Null equals nothing, not even Null,
// so missing keys never join or group together.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return false
	}
	if v.IsNumeric() && o.IsNumeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return v.i == o.i
		}
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return a == b
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	}
	return false
}

// Compare orders two values. Numbers compare numerically, strings
// lexically, dates chronologically and false before true. Values of
// different kinds order by kind, and Null sorts last.
func (v Value) Compare(o Value) int {
	if v.kind == KindNull || o.kind == KindNull {
		switch {
		case v.kind == o.kind:
			return 0
		case v.kind == KindNull:
			return 1
		default:
			return -1
		}
	}
	if v.IsNumeric() && o.IsNumeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return compareOrdered(v.i, o.i)
		}
		a, _ := v.AsFloat()
		b, _ := o.AsFloat()
		return compareOrdered(a, b)
	}
	if v.kind != o.kind {
		return compareOrdered(v.kind, o.kind)
	}
	switch v.kind {
	case KindString:
		return strings.Compare(v.str, o.str)
	case KindBool:
		switch {
		case v.b == o.b:
			return 0
		case !v.b:
			return -1
		default:
			return 1
		}
	case KindDate:
		return v.t.Compare(o.t)
	}
	return 0
}

// key returns a map key that is identical for Equal values
func (v Value) key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindInt:
		return "n:" + formatKeyFloat(float64(v.i))
	case KindFloat:
		return "n:" + formatKeyFloat(v.f)
	case KindBool:
		if v.b {
			return "b:1"
		}
		return "b:0"
	case KindDate:
		return "d:" + v.t.Format(time.DateOnly)
	}
	return ""
}

func compareOrdered[T int64 | float64 | Kind](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
