// Package record defines the wire unit produced by pollers and persisted to
// the record log: one timestamped JSON sample per target per tick.
package record

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/pulseview/pulseview/internal/metric"
)

// Record is one successful probe sample. The on-disk line log holds exactly
// this shape, one JSON object per line. Value keeps the probe's raw JSON so
// encoding a record back to the log is byte-faithful.
type Record struct {
	Target    string          `json:"target"`
	Timestamp float64         `json:"timestamp"` // fractional seconds since epoch
	Value     json.RawMessage `json:"value"`
}

// New builds a record stamped with the current wall-clock time.
func New(target string, value json.RawMessage) Record {
	return Record{
		Target:    target,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Value:     value,
	}
}

// Flattened is the transient, analysis-ready form of a record: every leaf of
// the value document keyed by its dotted path.
type Flattened struct {
	Target    string
	Timestamp time.Duration
	Metrics   map[string]metric.Value
}

// Flatten converts the record's JSON value into dotted-path scalars. It
// fails only when the stored value is not valid JSON, which a record decoded
// from a well-formed log line cannot be.
func (r Record) Flatten() (Flattened, error) {
	items, err := metric.Flatten(r.Value)
	if err != nil {
		return Flattened{}, err
	}
	return Flattened{
		Target:    r.Target,
		Timestamp: time.Duration(r.Timestamp * float64(time.Second)),
		Metrics:   items,
	}, nil
}

// Keys returns the metric key paths in lexicographic order.
func (f Flattened) Keys() []string {
	keys := make([]string, 0, len(f.Metrics))
	for k := range f.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
