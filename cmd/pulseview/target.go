package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pulseview/pulseview/internal/jsonl"
	"github.com/pulseview/pulseview/internal/poller"
)

// runTarget emits one polling-target definition as a single JSON line, in
// exactly the shape the poll command consumes.
func runTarget(args []string) error {
	fs := flag.NewFlagSet("target", flag.ExitOnError)
	name := fs.String("t", "", "target name (default: generated)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing probe command path")
	}

	if *name == "" {
		*name = "target-" + uuid.New().String()[:8]
	}

	target := poller.Target{
		Name:      *name,
		ProbePath: fs.Arg(0),
		ProbeArgs: fs.Args()[1:],
	}
	if err := target.Validate(); err != nil {
		return err
	}

	return jsonl.NewWriter(os.Stdout).WriteItem(target)
}
