// Command pulseview polls external probe commands for JSON samples, streams
// the records to an append-only line log, and serves the aggregated time
// series to interactive viewers.
//
// Subcommands:
//
//	target  emit one polling-target definition as JSON
//	poll    poll targets and stream records to stdout
//	serve   load a record log (optionally tailing it) and serve the viewer API
package main

import (
	"fmt"
	"os"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "target":
		err = runTarget(os.Args[2:])
	case "poll":
		err = runPoll(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Printf("pulseview %s (built %s)\n", Version, BuildTime)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "pulseview %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: pulseview <command> [options]

Commands:
  target [-t NAME] PROBE [ARGS...]       emit one target definition as JSON
  poll [-i SECS] [-d SECS] [FILE...]     poll targets, stream records to stdout
  serve [-c CONFIG] [-f] LOGFILE         serve the viewer API over a record log
  version                                print version information
`)
}
