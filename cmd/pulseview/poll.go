package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulseview/pulseview/internal/jsonl"
	"github.com/pulseview/pulseview/internal/poller"
)

// runPoll reads target definitions (one JSON object per line) from the
// given files, or stdin when none are given, polls every target for the
// configured duration, and streams records to stdout as JSON lines.
// Probe failures are diagnosed on stderr and never interrupt the stream.
func runPoll(args []string) error {
	fs := flag.NewFlagSet("poll", flag.ExitOnError)
	interval := fs.Int64("i", 1, "poll interval in seconds")
	duration := fs.Int64("d", 60, "total polling duration in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", *interval)
	}
	if *duration <= 0 {
		return fmt.Errorf("poll duration must be positive, got %d", *duration)
	}

	targets, err := loadTargets(fs.Args())
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets defined")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records := poller.Poll(ctx, targets,
		time.Duration(*interval)*time.Second,
		time.Duration(*duration)*time.Second,
		os.Stderr)

	out := jsonl.NewWriter(os.Stdout)
	for rec := range records {
		if err := out.WriteItem(rec); err != nil {
			return err
		}
	}
	return nil
}

func loadTargets(paths []string) ([]poller.Target, error) {
	if len(paths) == 0 {
		return readTargets(os.Stdin, "stdin")
	}

	var targets []poller.Target
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open targets file: %w", err)
		}
		got, err := readTargets(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		targets = append(targets, got...)
	}
	return targets, nil
}

func readTargets(r io.Reader, source string) ([]poller.Target, error) {
	jr := jsonl.NewReader(r)
	var targets []poller.Target
	for {
		t, err := jsonl.ReadItem[poller.Target](jr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		if t == nil {
			return targets, nil
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		targets = append(targets, *t)
	}
}
