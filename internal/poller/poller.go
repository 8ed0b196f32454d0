package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/pulseview/pulseview/internal/record"
)

// Poll spawns one polling unit per target and returns the shared record
// channel. The channel closes exactly when every unit has stopped, either
// because the configured duration elapsed or because ctx was cancelled.
// Diagnostics for skipped samples go to logw.
func Poll(ctx context.Context, targets []Target, interval, duration time.Duration, logw io.Writer) <-chan record.Record {
	out := make(chan record.Record)
	end := time.Now().Add(duration)

	var wg sync.WaitGroup
	for _, t := range targets {
		u := &unit{
			target:   t,
			interval: interval,
			endTime:  end,
			out:      out,
			logw:     logw,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.run(ctx)
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// unit is one independent scheduling unit. It cycles
// Scheduled -> Executing -> Scheduled until its end time passes or the
// consumer goes away.
type unit struct {
	target   Target
	interval time.Duration
	endTime  time.Time
	out      chan<- record.Record
	logw     io.Writer
}

func (u *unit) run(ctx context.Context) {
	next := time.Now()
	for {
		if !next.Before(u.endTime) {
			return
		}

		if rec, ok := u.pollOnce(ctx); ok {
			select {
			case u.out <- rec:
			case <-ctx.Done():
				// Consumer gone; stop immediately.
				return
			}
		}

		// Catch up past "now" without queueing missed ticks: a slow probe
		// skips ticks instead of bursting.
		now := time.Now()
		for !next.After(now) {
			next = next.Add(u.interval)
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			return
		}
	}
}

// pollOnce executes the probe and classifies the outcome. Every failure mode
// is a logged skip; only a clean exit with a single valid JSON value on
// stdout produces a record.
func (u *unit) pollOnce(ctx context.Context) (record.Record, bool) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, u.target.ProbePath, u.target.ProbeArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, exited := err.(*exec.ExitError); exited {
			fmt.Fprintf(u.logw, "[Poller %s] probe %s exited with error: %v (stdout: %q, stderr: %q)\n",
				u.target.Name, u.target.ProbePath, err, stdout.String(), stderr.String())
		} else {
			fmt.Fprintf(u.logw, "[Poller %s] probe %s failed to start: %v\n",
				u.target.Name, u.target.ProbePath, err)
		}
		return record.Record{}, false
	}

	raw := bytes.TrimSpace(stdout.Bytes())
	var value json.RawMessage
	if err := json.Unmarshal(raw, &value); err != nil {
		fmt.Fprintf(u.logw, "[Poller %s] probe %s produced invalid JSON: %v (stdout: %q)\n",
			u.target.Name, u.target.ProbePath, err, stdout.String())
		return record.Record{}, false
	}

	return record.New(u.target.Name, value), true
}
