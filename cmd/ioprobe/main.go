// Package main provides the ioprobe CLI tool for inspecting the I/O
// capabilities of storage directories.
//
// Usage:
//
//	ioprobe [-v|-q] <dir> [<dir>...]
//
// For each directory, ioprobe runs the same capability probe the storage
// engine runs at startup and prints the working direct I/O block size and
// whether fully asynchronous writes are achievable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aalhour/duraio"
	"github.com/aalhour/duraio/internal/logging"
)

var (
	verbose = flag.Bool("v", false, "Verbose output (debug-level probe logging)")
	quiet   = flag.Bool("q", false, "Suppress probe logging, print results only")
	help    = flag.Bool("help", false, "Print help")
)

func main() {
	flag.Parse()

	if *help {
		printUsage()
		return
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one directory is required")
		printUsage()
		os.Exit(1)
	}

	var logger logging.Logger
	switch {
	case *quiet:
		logger = logging.Discard
	case *verbose:
		logger = logging.NewDefaultLogger(logging.LevelDebug)
	default:
		logger = logging.NewDefaultLogger(logging.LevelWarn)
	}

	exit := 0
	for _, dir := range flag.Args() {
		caps, err := duraio.NewProber(dir, duraio.WithLogger(logger)).Probe()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ioprobe: %s: %v\n", dir, err)
			exit = 1
			continue
		}
		fmt.Printf("%s: %s\n", dir, caps)
	}
	os.Exit(exit)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: ioprobe [-v|-q] <dir> [<dir>...]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Probes each directory's filesystem for direct I/O support and")
	fmt.Fprintln(os.Stderr, "non-blocking asynchronous write capability.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}
