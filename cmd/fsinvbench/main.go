// fsinvbench compares the parallel engine against fastwalk and the stdlib
// sequential walker on the same tree. It reports wall time and entry rates;
// the engine additionally pays for stat calls and report serialization, so
// its number is the end-to-end one.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/fsinv/fsinv/internal/scan"
)

func main() {
	dir := flag.String("dir", ".", "Directory to traverse")
	workers := flag.Int("workers", scan.DefaultWorkers(), "Concurrent workers")
	flag.Parse()

	root, err := filepath.Abs(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve dir: %v\n", err)
		os.Exit(1)
	}

	runEngine(root, *workers)
	runFastwalk(root, *workers)
	runWalkDir(root)
}

func runEngine(root string, workers int) {
	out, err := os.CreateTemp("", "fsinvbench-*.csv")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp output: %v\n", err)
		os.Exit(1)
	}
	out.Close()
	defer os.Remove(out.Name())

	opts := scan.DefaultOptions().
		WithWorkers(workers).
		WithOutputPath(out.Name())

	start := time.Now()
	res, err := scan.Run(context.Background(), root, opts)
	took := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}

	entries := res.Files + res.Dirs
	report("engine (stat+aggregate+csv)", entries, took)
	if len(res.Errors) > 0 {
		fmt.Printf("  engine errors: %d\n", len(res.Errors))
	}
}

func runFastwalk(root string, workers int) {
	var entries int64
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: workers,
	}

	start := time.Now()
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		atomic.AddInt64(&entries, 1)
		return nil
	})
	took := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fastwalk: %v\n", err)
		os.Exit(1)
	}

	report("fastwalk (list only)", atomic.LoadInt64(&entries), took)
}

func runWalkDir(root string) {
	var entries int64

	start := time.Now()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		entries++
		return nil
	})
	took := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walkdir: %v\n", err)
		os.Exit(1)
	}

	report("filepath.WalkDir (sequential)", entries, took)
}

func report(name string, entries int64, took time.Duration) {
	rate := float64(0)
	if took.Seconds() > 0 {
		rate = float64(entries) / took.Seconds()
	}
	fmt.Printf("%-32s %10d entries  %12s  %10.0f/sec\n", name, entries, took.Round(time.Millisecond), rate)
}
