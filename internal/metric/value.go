// Package metric defines the scalar value model shared by the flattener and
// the time-series engine. Every leaf of a probe's JSON output becomes one
// Value; Values of any kind are mutually comparable under a single total
// order so they can live together in sorted sets.
package metric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged union over {null, bool, int64, float64, string}.
// The zero value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(v bool) Value     { return Value{kind: KindBool, b: v} }
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether the value is an integer or a float.
func (v Value) IsNumber() bool { return v.kind == KindInteger || v.kind == KindFloat }

// IsInteger reports whether the value is an integer.
func (v Value) IsInteger() bool { return v.kind == KindInteger }

// AsInt64 returns the integer payload, if any.
func (v Value) AsInt64() (int64, bool) {
	if v.kind == KindInteger {
		return v.i, true
	}
	return 0, false
}

// AsFloat64 returns the numeric payload widened to float64, if any.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// AsBool returns the bool payload, if any.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsString returns the string payload, if any.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// Compare orders two values: Null < Bool < Integer < Float < String, and
// within a kind the natural order. Floats use a total order (sign-aware bit
// comparison) so NaN and the infinities sort deterministically.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return compareBool(v.b, o.b)
	case KindInteger:
		return compareInt64(v.i, o.i)
	case KindFloat:
		return compareInt64(floatOrdKey(v.f), floatOrdKey(o.f))
	case KindString:
		switch {
		case v.s < o.s:
			return -1
		case v.s > o.s:
			return 1
		}
		return 0
	}
	return 0
}

// Equal follows the total order, so Integer(1) and Float(1) are distinct.
func (v Value) Equal(o Value) bool { return v.Compare(o) == 0 }

func compareBool(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// floatOrdKey maps a float64 to an int64 whose natural order is the IEEE 754
// totalOrder predicate: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
func floatOrdKey(f float64) int64 {
	bits := int64(math.Float64bits(f))
	return bits ^ int64(uint64(bits>>63)>>1)
}

// String renders the value the way it appears in JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	}
	return ""
}

// MarshalJSON encodes the value as its natural JSON scalar. Non-finite
// floats have no JSON representation and encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInteger:
		return json.Marshal(v.i)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON scalar by trying the kinds in a fixed order:
// null, bool, integer, float, string. Null goes first because encoding/json
// treats null as a no-op for every destination type; the rest of the order
// avoids the ambiguity of numbers that parse both as integer and float.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Null()
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = Bool(b)
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*v = Integer(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Float(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = String(s)
		return nil
	}
	return fmt.Errorf("metric: cannot decode %q as a scalar value", data)
}
