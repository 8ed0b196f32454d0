// Package series buckets flattened records into fixed-width time segments
// and incrementally computes per-target and cross-target representative
// values plus per-second rate-of-change figures. Only segments touched since
// the last SyncState are recomputed.
package series

import (
	"encoding/json"

	"github.com/pulseview/pulseview/internal/metric"
)

type repKind int

const (
	repNone repKind = iota // not synced yet
	repAvg
	repSet
)

// Representative is the single value standing in for all raw samples of one
// metric in one segment: a numeric average when every sample is numeric, or
// a deduplicated set otherwise. The zero value is an explicit "not synced
// yet" marker, distinct from an empty set, so stale reads are detectable.
type Representative struct {
	kind repKind
	avg  metric.Value
	set  metric.ValueSet
}

// AvgOf wraps a numeric average.
func AvgOf(v metric.Value) Representative {
	return Representative{kind: repAvg, avg: v}
}

// SetOf wraps a set of distinct values.
func SetOf(s metric.ValueSet) Representative {
	return Representative{kind: repSet, set: s}
}

// IsZero reports whether the value has never been synced.
func (r Representative) IsZero() bool { return r.kind == repNone }

// Avg returns the numeric average, if this representative is one.
func (r Representative) Avg() (metric.Value, bool) {
	return r.avg, r.kind == repAvg
}

// Set returns the value set, if this representative is one.
func (r Representative) Set() (metric.ValueSet, bool) {
	return r.set, r.kind == repSet
}

// Equal compares two representatives structurally.
func (r Representative) Equal(o Representative) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case repAvg:
		return r.avg.Equal(o.avg)
	case repSet:
		return r.set.Equal(o.set)
	}
	return true
}

// MarshalJSON encodes as {"avg": n}, {"set": [...]}, or null when unsynced.
func (r Representative) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case repAvg:
		return json.Marshal(map[string]metric.Value{"avg": r.avg})
	case repSet:
		return json.Marshal(map[string]metric.ValueSet{"set": r.set})
	}
	return []byte("null"), nil
}
