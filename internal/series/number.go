package series

import (
	"math"

	"github.com/pulseview/pulseview/internal/metric"
)

// Numeric combination rules: integer op integer stays integer, anything
// else goes through float64. A result that is not representable (int64
// overflow, non-finite float) is reported as absent rather than an error.

func addNumbers(a, b metric.Value) (metric.Value, bool) {
	return applyNumbers(a, b,
		func(x, y int64) (int64, bool) {
			sum := x + y
			if (y > 0 && sum < x) || (y < 0 && sum > x) {
				return 0, false
			}
			return sum, true
		},
		func(x, y float64) float64 { return x + y })
}

func subNumbers(a, b metric.Value) (metric.Value, bool) {
	return applyNumbers(a, b,
		func(x, y int64) (int64, bool) {
			diff := x - y
			if (y < 0 && diff < x) || (y > 0 && diff > x) {
				return 0, false
			}
			return diff, true
		},
		func(x, y float64) float64 { return x - y })
}

func applyNumbers(a, b metric.Value, fi func(int64, int64) (int64, bool), ff func(float64, float64) float64) (metric.Value, bool) {
	if ai, ok := a.AsInt64(); ok {
		if bi, ok := b.AsInt64(); ok {
			if v, ok := fi(ai, bi); ok {
				return metric.Integer(v), true
			}
			return metric.Value{}, false
		}
	}
	af, aok := a.AsFloat64()
	bf, bok := b.AsFloat64()
	if !aok || !bok {
		return metric.Value{}, false
	}
	v := ff(af, bf)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return metric.Value{}, false
	}
	return metric.Float(v), true
}

func isNonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// rateBetween computes the per-second rate (cur - prev) / seconds, keeping
// integer arithmetic when both operands are integers.
func rateBetween(cur, prev metric.Value, seconds int64) (metric.Value, bool) {
	diff, ok := subNumbers(cur, prev)
	if !ok {
		return metric.Value{}, false
	}
	if di, ok := diff.AsInt64(); ok {
		return metric.Integer(di / seconds), true
	}
	df, _ := diff.AsFloat64()
	v := df / float64(seconds)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return metric.Value{}, false
	}
	return metric.Float(v), true
}
