// Package ingest loads a record log into the time-series engine, either as
// a one-shot bulk replay or as a live tail of a growing file. It owns the
// engine under a single-writer lock so the HTTP viewer can read consistent
// state while a tail loop keeps inserting.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pulseview/pulseview/internal/jsonl"
	"github.com/pulseview/pulseview/internal/record"
	"github.com/pulseview/pulseview/internal/series"
)

// Service reads records from one log file and feeds one TimeSeries.
type Service struct {
	mu         sync.RWMutex
	series     *series.TimeSeries
	file       *os.File
	reader     *jsonl.Reader
	generation uint64
	records    int
	logw       io.Writer
}

// Open prepares a service over the log at path. Nothing is read yet.
func Open(path string, segmentDuration int64, logw io.Writer) (*Service, error) {
	ts, err := series.New(segmentDuration)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open log: %w", err)
	}
	return &Service{
		series: ts,
		file:   f,
		reader: jsonl.NewReader(f),
		logw:   logw,
	}, nil
}

// Close releases the underlying file.
func (s *Service) Close() error {
	return s.file.Close()
}

// LoadAll replays every complete line currently in the log. A malformed
// line is fatal: the log is expected to be well formed and a decode error
// aborts the load. Returns the number of records inserted by this call.
func (s *Service) LoadAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Service) loadLocked() (int, error) {
	n := 0
	for {
		rec, err := jsonl.ReadItem[record.Record](s.reader)
		if err != nil {
			return n, err
		}
		if rec == nil {
			break
		}
		if err := s.series.Insert(*rec); err != nil {
			return n, err
		}
		n++
	}
	s.records += n
	if n > 0 {
		s.generation++
	}
	return n, nil
}

// Tail keeps polling the log for newly appended lines until ctx is done.
// A partial trailing line is never an error: the reader waits for its
// terminator. Decode errors stop the tail and are logged.
func (s *Service) Tail(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			n, err := s.loadLocked()
			s.mu.Unlock()
			if err != nil {
				fmt.Fprintf(s.logw, "[Tail] stopping: %v\n", err)
				return
			}
			if n > 0 {
				fmt.Fprintf(s.logw, "[Tail] ingested %d new record(s)\n", n)
			}
		}
	}
}

// Generation increments whenever new records are ingested; the live
// WebSocket feed uses it to detect changes cheaply.
func (s *Service) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Records returns the total number of records ingested so far.
func (s *Service) Records() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// WithSynced syncs any dirty segments and then runs fn against the engine
// under the lock. fn must not retain references past its return.
func (s *Service) WithSynced(fn func(ts *series.TimeSeries)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series.SyncState()
	fn(s.series)
}
