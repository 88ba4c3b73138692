package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chazu/uwu/build"
	"github.com/chazu/uwu/cache"
	"github.com/chazu/uwu/manifest"
)

// handleBuildCommand processes the `uwu build` subcommand.
// Usage:
//
//	uwu build              # compile every source dir into output.dir
//	uwu build -j 4         # at most four files at a time
//	uwu build --no-cache   # ignore the artifact cache
func handleBuildCommand(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	noCache := fs.Bool("no-cache", false, "Do not read or write the artifact cache")
	jobs := fs.Int("j", 0, "Files compiled in parallel (0 = number of CPUs)")
	verbose := fs.Int("v", 0, "Log verbosity")
	logFile := fs.String("log-file", "", "Write logs to this file instead of stderr")
	dir := fs.String("C", ".", "Look for uwu.toml starting in this directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configureLogging(*verbose, *logFile)

	// Load manifest
	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		return 1
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: no %s found\n", manifest.FileName)
		return 1
	}

	var c *cache.Cache
	if !m.Cache.Disabled && !*noCache {
		c, err = cache.Open(m.CachePath())
		if err != nil {
			log.Warningf("cache unavailable: %s", err)
			c = nil
		} else {
			defer c.Close()
		}
	}

	b := build.New(m, c)
	b.Jobs = *jobs

	report, err := b.BuildAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building: %v\n", err)
		return 1
	}

	for _, f := range report.Failed {
		fmt.Fprintf(os.Stderr, "%v\n", f)
	}
	fmt.Printf("%d compiled, %d cached, %d failed\n", report.Compiled, report.Cached, len(report.Failed))
	if len(report.Failed) > 0 {
		return 1
	}
	return 0
}
