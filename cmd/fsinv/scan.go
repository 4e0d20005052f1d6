package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fsinv/fsinv/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a directory tree and write a report",
	Long: `Scan a directory tree in parallel and write one row per entry to the
selected report format, including recursive per-directory aggregates.`,
	RunE: runScan,
}

var (
	scanRoot     string
	scanOut      string
	scanFormat   string
	scanCompress string
	scanWorkers  int
	scanSnaps    bool
	scanFollow   bool
	scanExclude  []string
	scanVerbose  bool
)

const maxErrorsPrinted = 10

func init() {
	scanCmd.Flags().StringVarP(&scanRoot, "root", "r", ".", "Root directory to scan")
	scanCmd.Flags().StringVarP(&scanOut, "out", "o", "", "Output path (default scan.<ext> for the format)")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "text", "Report format: text|columnar|sqlite")
	scanCmd.Flags().StringVarP(&scanCompress, "compress", "c", "none", "Compression: none|zstd|gzip")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", scan.DefaultWorkers(), "Number of worker goroutines")
	scanCmd.Flags().BoolVar(&scanSnaps, "skip-snapshots", true, "Skip directories named .snapshot")
	scanCmd.Flags().BoolVar(&scanFollow, "follow-symlinks", false, "Expand symlinked directories (with cycle detection)")
	scanCmd.Flags().StringSliceVarP(&scanExclude, "exclude", "e", nil, "Regex patterns to exclude (can be repeated)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Enable verbose scan logging")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(scanRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}

	opts := scan.DefaultOptions().
		WithFormat(scanFormat).
		WithCompress(scanCompress).
		WithOutputPath(scanOut).
		WithWorkers(scanWorkers).
		WithSkipSnapshots(scanSnaps).
		WithFollowSymlinks(scanFollow).
		WithVerbose(scanVerbose)

	for _, pattern := range scanExclude {
		if err := opts.AddExcludePattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	fmt.Printf("Scanning %s...\n", root)
	startTime := time.Now()

	res, err := scan.Run(ctx, root, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Scan canceled.")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Report: %s\n", res.OutputPath)
	fmt.Printf("Scan completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Files: %s\n", humanize.Comma(res.Files))
	fmt.Printf("  Directories: %s\n", humanize.Comma(res.Dirs))
	fmt.Printf("  Total size: %s\n", humanize.IBytes(uint64(res.TotalBytes)))

	if len(res.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(res.Errors))
		for i, e := range res.Errors {
			if i >= maxErrorsPrinted {
				fmt.Printf("    ... and %d more\n", len(res.Errors)-maxErrorsPrinted)
				break
			}
			fmt.Printf("    %s\n", e.Error())
		}
	}

	return nil
}
