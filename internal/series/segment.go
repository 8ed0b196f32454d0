package series

import (
	"sort"

	"github.com/pulseview/pulseview/internal/metric"
)

// SegmentValue holds one metric of one target within one segment. RawValues
// is authoritative and append-only; Value and Delta are derived and only
// valid once the owning segment has been synced after the latest append.
type SegmentValue struct {
	Value     Representative `json:"value"`
	Delta     *metric.Value  `json:"delta,omitempty"`
	RawValues []metric.Value `json:"rawValues"`
}

// AggregatedValue is the cross-target combination of one metric key within
// one segment. Sum stays unsynced/absent when the targets' representatives
// cannot be combined (Avg/Set mismatch, overflow, non-finite result).
type AggregatedValue struct {
	Sum   Representative `json:"sum"`
	Delta *metric.Value  `json:"delta,omitempty"`
}

// Segment is one fixed-width time bucket, keyed by its start time. A sample
// exactly on a boundary belongs to the segment beginning there.
type Segment struct {
	StartTime        int64                               `json:"startTime"`
	EndTime          int64                               `json:"endTime"`
	AggregatedValues map[string]*AggregatedValue         `json:"aggregatedValues"`
	TargetValues     map[string]map[string]*SegmentValue `json:"targetValues"`
}

func newSegment(start, duration int64) *Segment {
	return &Segment{
		StartTime:        start,
		EndTime:          start + duration,
		AggregatedValues: make(map[string]*AggregatedValue),
		TargetValues:     make(map[string]map[string]*SegmentValue),
	}
}

// append records one raw sample for (target, key).
func (s *Segment) append(target, key string, v metric.Value) {
	byKey := s.TargetValues[target]
	if byKey == nil {
		byKey = make(map[string]*SegmentValue)
		s.TargetValues[target] = byKey
	}
	sv := byKey[key]
	if sv == nil {
		sv = &SegmentValue{}
		byKey[key] = sv
	}
	sv.RawValues = append(sv.RawValues, v)
}

// Targets returns the target names present in this segment, sorted.
func (s *Segment) Targets() []string {
	names := make([]string, 0, len(s.TargetValues))
	for name := range s.TargetValues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricKeys returns the union of all targets' metric keys, sorted.
func (s *Segment) MetricKeys() []string {
	seen := make(map[string]struct{})
	for _, byKey := range s.TargetValues {
		for key := range byKey {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the synced segment value for (target, key), if present.
func (s *Segment) Value(target, key string) (*SegmentValue, bool) {
	byKey, ok := s.TargetValues[target]
	if !ok {
		return nil, false
	}
	sv, ok := byKey[key]
	return sv, ok
}

// sync recomputes this segment's derived values against its immediate
// predecessor (an empty placeholder when no such segment exists).
func (s *Segment) sync(prev *Segment, duration int64) {
	s.syncTargetValues(prev, duration)
	s.syncAggregatedValues(prev, duration)
}

func (s *Segment) syncTargetValues(prev *Segment, duration int64) {
	for target, byKey := range s.TargetValues {
		for key, sv := range byKey {
			sv.Value = representativeOf(sv.RawValues)
			sv.Delta = nil
			prevSV, ok := prev.Value(target, key)
			if !ok {
				continue
			}
			cur, curAvg := sv.Value.Avg()
			old, oldAvg := prevSV.Value.Avg()
			if !curAvg || !oldAvg {
				continue
			}
			if d, ok := rateBetween(cur, old, duration); ok {
				sv.Delta = &d
			}
		}
	}
}

func (s *Segment) syncAggregatedValues(prev *Segment, duration int64) {
	targets := s.Targets()
	for _, key := range s.MetricKeys() {
		agg := s.AggregatedValues[key]
		if agg == nil {
			agg = &AggregatedValue{}
			s.AggregatedValues[key] = agg
		}
		agg.Sum = s.foldSum(targets, key)
		agg.Delta = nil

		prevAgg, ok := prev.AggregatedValues[key]
		if !ok {
			continue
		}
		cur, curAvg := agg.Sum.Avg()
		old, oldAvg := prevAgg.Sum.Avg()
		if !curAvg || !oldAvg {
			continue
		}
		if d, ok := rateBetween(cur, old, duration); ok {
			agg.Delta = &d
		}
	}
}

// foldSum combines all targets' representatives for one key, in target
// order: Avg+Avg adds numerically, Set+Set unions, any mismatch or
// non-representable result aborts to "no sum".
func (s *Segment) foldSum(targets []string, key string) Representative {
	var sum Representative
	for _, target := range targets {
		sv, ok := s.Value(target, key)
		if !ok {
			continue
		}
		if sum.IsZero() {
			sum = cloneRepresentative(sv.Value)
			continue
		}
		sumAvg, sumIsAvg := sum.Avg()
		curAvg, curIsAvg := sv.Value.Avg()
		if sumIsAvg && curIsAvg {
			v, ok := addNumbers(sumAvg, curAvg)
			if !ok {
				return Representative{}
			}
			sum = AvgOf(v)
			continue
		}
		sumSet, sumIsSet := sum.Set()
		curSet, curIsSet := sv.Value.Set()
		if sumIsSet && curIsSet {
			union := sumSet.Clone()
			union.AddAll(curSet)
			sum = SetOf(union)
			continue
		}
		// Avg/Set mismatch, or an unsynced operand.
		return Representative{}
	}
	return sum
}

func cloneRepresentative(r Representative) Representative {
	if set, ok := r.Set(); ok {
		return SetOf(set.Clone())
	}
	return r
}

// representativeOf summarizes raw samples: all-integer values average with
// truncating division, all-numeric values average in float64 (falling back
// when the mean is not finite), everything else collapses to a set of the
// distinct values.
func representativeOf(raw []metric.Value) Representative {
	if len(raw) == 0 {
		return SetOf(metric.ValueSet{})
	}

	allInt := true
	allNum := true
	for _, v := range raw {
		if !v.IsInteger() {
			allInt = false
		}
		if !v.IsNumber() {
			allNum = false
			break
		}
	}

	if allInt {
		var sum int64
		overflow := false
		for _, v := range raw {
			i, _ := v.AsInt64()
			s := sum + i
			if (i > 0 && s < sum) || (i < 0 && s > sum) {
				overflow = true
				break
			}
			sum = s
		}
		// An overflowing sum degrades to the float mean below.
		if !overflow {
			return AvgOf(metric.Integer(sum / int64(len(raw))))
		}
	}

	if allNum {
		var sum float64
		for _, v := range raw {
			f, _ := v.AsFloat64()
			sum += f
		}
		avg := sum / float64(len(raw))
		if !isNonFinite(avg) {
			return AvgOf(metric.Float(avg))
		}
	}

	return SetOf(metric.NewValueSet(raw...))
}
