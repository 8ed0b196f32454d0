package metric

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueTotalOrder(t *testing.T) {
	// Null < Bool < Integer < Float < String, natural order within a kind.
	ordered := []Value{
		Null(),
		Bool(false),
		Bool(true),
		Integer(-5),
		Integer(3),
		Float(math.Inf(-1)),
		Float(-2.5),
		Float(0),
		Float(7.25),
		Float(math.Inf(1)),
		Float(math.NaN()),
		String("a"),
		String("b"),
	}

	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Compare(ordered[j])
			switch {
			case i < j && got >= 0:
				t.Errorf("expected %v < %v, got Compare=%d", ordered[i], ordered[j], got)
			case i > j && got <= 0:
				t.Errorf("expected %v > %v, got Compare=%d", ordered[i], ordered[j], got)
			case i == j && got != 0:
				t.Errorf("expected %v == %v, got Compare=%d", ordered[i], ordered[j], got)
			}
		}
	}
}

func TestValueFloatTotalOrderIsDeterministic(t *testing.T) {
	nan := Float(math.NaN())
	if !nan.Equal(Float(math.NaN())) {
		t.Error("NaN should equal NaN under the total order")
	}
	if nan.Compare(Float(math.Inf(1))) <= 0 {
		t.Error("positive NaN should sort above +Inf")
	}
}

func TestValueEqualityDistinguishesKinds(t *testing.T) {
	if Integer(1).Equal(Float(1)) {
		t.Error("Integer(1) and Float(1) must be distinct values")
	}
	if Integer(0).Equal(Bool(false)) {
		t.Error("Integer(0) and Bool(false) must be distinct values")
	}
}

func TestValueJSONDecodeOrderedAttempt(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{`true`, Bool(true)},
		{`false`, Bool(false)},
		{`42`, Integer(42)},
		{`-7`, Integer(-7)},
		{`3.5`, Float(3.5)},
		{`"hello"`, String("hello")},
		{`null`, Null()},
	}
	for _, tc := range cases {
		var v Value
		if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
			t.Fatalf("decode %s: %v", tc.in, err)
		}
		if !v.Equal(tc.want) {
			t.Errorf("decode %s: got %v (kind %v), want %v (kind %v)",
				tc.in, v, v.Kind(), tc.want, tc.want.Kind())
		}
	}
}

func TestValueJSONDecodeRejectsComposite(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("expected error decoding an object into a scalar Value")
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []Value{Null(), Bool(true), Integer(-12), Float(2.75), String("x")}
	for _, want := range values {
		b, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %v: %v", want, err)
		}
		var got Value
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if !got.Equal(want) {
			t.Errorf("round trip %v: got %v", want, got)
		}
	}
}

func TestValueSetDeduplicatesAcrossKinds(t *testing.T) {
	s := NewValueSet(Integer(1), Float(1), Integer(1), String("x"), String("x"), Null())
	if s.Len() != 4 {
		t.Fatalf("expected 4 distinct members, got %d: %v", s.Len(), s.Values())
	}
	if !s.Contains(Integer(1)) || !s.Contains(Float(1)) {
		t.Error("Integer(1) and Float(1) should both be members")
	}

	// Members come back sorted under the total order.
	vals := s.Values()
	for i := 1; i < len(vals); i++ {
		if vals[i-1].Compare(vals[i]) >= 0 {
			t.Errorf("set not sorted at %d: %v >= %v", i, vals[i-1], vals[i])
		}
	}
}

func TestValueSetUnion(t *testing.T) {
	a := NewValueSet(Integer(1), Integer(2))
	b := NewValueSet(Integer(2), Integer(3))
	a.AddAll(b)
	if a.Len() != 3 {
		t.Fatalf("expected 3 members after union, got %d", a.Len())
	}
}
