package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"

	"github.com/fsinv/fsinv/internal/db"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display report metadata",
	Long:  `Print metadata about a sqlite report including timestamps and statistics.`,
	RunE:  runInfo,
}

var infoDB string

func init() {
	infoCmd.Flags().StringVarP(&infoDB, "db", "d", "scan.db", "Path to report database")
}

func runInfo(cmd *cobra.Command, args []string) error {
	database, err := sql.Open("sqlite", infoDB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	meta, err := db.ReadMeta(database)
	if err != nil {
		return err
	}

	fmt.Printf("Scan Information\n")
	fmt.Printf("================\n\n")
	fmt.Printf("Root Path:    %s\n", meta.RootPath)
	fmt.Printf("Start Time:   %s\n", meta.StartTime.Format(time.RFC3339))
	if meta.EndTime.Unix() > 0 {
		fmt.Printf("End Time:     %s\n", meta.EndTime.Format(time.RFC3339))
		fmt.Printf("Duration:     %s\n", meta.EndTime.Sub(meta.StartTime).Round(time.Millisecond))
	}
	fmt.Printf("\nStatistics\n")
	fmt.Printf("----------\n")
	fmt.Printf("Files:       %s\n", humanize.Comma(meta.FileCount))
	fmt.Printf("Directories: %s\n", humanize.Comma(meta.DirCount))
	fmt.Printf("Total Size:  %s\n", humanize.IBytes(uint64(meta.TotalSize)))
	if meta.ErrorCount > 0 {
		fmt.Printf("Errors:      %s\n", humanize.Comma(meta.ErrorCount))
	}

	return nil
}
