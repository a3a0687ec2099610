package pipeline

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
)

// Value is a single table cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

func Null() Value           { return Value{} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v holds a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// AsInt returns the integer payload and whether v holds an integer.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns v as a float for integer and float cells.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Format renders the cell for CSV output. Null is the empty string and
// integral floats keep a trailing ".0", matching what pandas writes.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return ""
		}
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	}
	return ""
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "<null>"
	}
	return v.Format()
}

// Equal reports whether two cells hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}
