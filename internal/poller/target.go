// Package poller runs one scheduling unit per polling target. Each unit
// invokes an external probe command on a fixed cadence for a bounded
// duration and hands successful samples to a shared channel; probe failures
// are logged and skipped, never fatal.
package poller

import "fmt"

// Target describes one probe to poll. Immutable once created; every target
// is owned by exactly one polling unit.
type Target struct {
	Name      string   `json:"name"`
	ProbePath string   `json:"probe_path"`
	ProbeArgs []string `json:"probe_args,omitempty"`
}

// Validate checks that the definition can be executed at all.
func (t Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("poller: target has no name")
	}
	if t.ProbePath == "" {
		return fmt.Errorf("poller: target %q has no probe path", t.Name)
	}
	return nil
}
