package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fsinv",
	Short: "A parallel filesystem inventory tool",
	Long: `fsinv walks a directory tree with a pool of workers and writes one
metadata row per entry, with recursive file counts and byte sums for
every directory, to a CSV, parquet, or SQLite report.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
}
