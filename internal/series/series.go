package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/pulseview/pulseview/internal/record"
)

// TimeSeries is the aggregation engine. It is not safe for concurrent use;
// the owner mutates it only through Insert and SyncState and must read
// derived values only after a sync (single-writer discipline).
type TimeSeries struct {
	segmentDuration int64 // seconds
	startTime       int64
	endTime         int64
	hasData         bool
	segments        map[int64]*Segment
	dirty           map[int64]struct{}
}

// New creates an empty series with the given segment width in seconds.
func New(segmentDuration int64) (*TimeSeries, error) {
	if segmentDuration <= 0 {
		return nil, fmt.Errorf("series: segment duration must be positive, got %d", segmentDuration)
	}
	return &TimeSeries{
		segmentDuration: segmentDuration,
		segments:        make(map[int64]*Segment),
		dirty:           make(map[int64]struct{}),
	}, nil
}

// SegmentDuration returns the segment width in seconds.
func (ts *TimeSeries) SegmentDuration() int64 { return ts.segmentDuration }

// StartTime is the earliest segment start ever observed (0 while empty).
func (ts *TimeSeries) StartTime() int64 { return ts.startTime }

// EndTime is max(observed timestamp seconds) + 1 (0 while empty).
func (ts *TimeSeries) EndTime() int64 { return ts.endTime }

// Len returns the number of segments.
func (ts *TimeSeries) Len() int { return len(ts.segments) }

// IsEmpty reports whether no record has been inserted yet.
func (ts *TimeSeries) IsEmpty() bool { return !ts.hasData }

// Insert flattens one record and appends its samples to the segment
// covering the record's timestamp, creating the segment if needed. Arrival
// order does not matter: start and end times only ever widen.
func (ts *TimeSeries) Insert(rec record.Record) error {
	flat, err := rec.Flatten()
	if err != nil {
		return fmt.Errorf("series: insert: %w", err)
	}

	secs := int64(flat.Timestamp / time.Second)
	bucket := secs - secs%ts.segmentDuration

	if !ts.hasData || bucket < ts.startTime {
		ts.startTime = bucket
	}
	if !ts.hasData || secs+1 > ts.endTime {
		ts.endTime = secs + 1
	}
	ts.hasData = true

	seg := ts.segments[bucket]
	if seg == nil {
		seg = newSegment(bucket, ts.segmentDuration)
		ts.segments[bucket] = seg
	}
	for _, key := range flat.Keys() {
		seg.append(flat.Target, key, flat.Metrics[key])
	}

	ts.dirty[bucket] = struct{}{}
	return nil
}

// SyncState recomputes representative values and deltas for every segment
// touched since the last sync, each exactly once, in ascending start order
// so a dirty predecessor is settled before its successor reads it. Calling
// it again without intervening inserts is a no-op.
func (ts *TimeSeries) SyncState() {
	if len(ts.dirty) == 0 {
		return
	}

	starts := make([]int64, 0, len(ts.dirty))
	for start := range ts.dirty {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	ts.dirty = make(map[int64]struct{})

	empty := newSegment(0, ts.segmentDuration)
	for _, start := range starts {
		prev := ts.segments[start-ts.segmentDuration]
		if prev == nil {
			prev = empty
		}
		ts.segments[start].sync(prev, ts.segmentDuration)
	}
}

// Segment returns the segment starting at the given time, if it exists.
func (ts *TimeSeries) Segment(start int64) (*Segment, bool) {
	seg, ok := ts.segments[start]
	return seg, ok
}

// Segments returns all segments ordered by start time.
func (ts *TimeSeries) Segments() []*Segment {
	out := make([]*Segment, 0, len(ts.segments))
	for _, seg := range ts.segments {
		out = append(out, seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// Targets returns every target name seen across all segments, sorted.
func (ts *TimeSeries) Targets() []string {
	seen := make(map[string]struct{})
	for _, seg := range ts.segments {
		for name := range seg.TargetValues {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricKeys returns every metric key seen across all segments, sorted.
func (ts *TimeSeries) MetricKeys() []string {
	seen := make(map[string]struct{})
	for _, seg := range ts.segments {
		for _, byKey := range seg.TargetValues {
			for key := range byKey {
				seen[key] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
