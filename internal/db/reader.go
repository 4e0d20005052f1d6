package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Meta holds the scan-level metadata stored in a sqlite report.
type Meta struct {
	RootPath   string
	StartTime  time.Time
	EndTime    time.Time
	TotalSize  int64
	FileCount  int64
	DirCount   int64
	ErrorCount int64
}

// ReadMeta loads the scan_meta row from a report database.
func ReadMeta(db *sql.DB) (*Meta, error) {
	var rootPath string
	var startTime, endTime int64
	var totalSize, fileCount, dirCount, errorCount int64

	err := db.QueryRow(`
		SELECT root_path, start_time, COALESCE(end_time, 0), total_size, file_count, dir_count, error_count
		FROM scan_meta WHERE id = 1
	`).Scan(&rootPath, &startTime, &endTime, &totalSize, &fileCount, &dirCount, &errorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan metadata: %w", err)
	}

	return &Meta{
		RootPath:   rootPath,
		StartTime:  time.Unix(startTime, 0),
		EndTime:    time.Unix(endTime, 0),
		TotalSize:  totalSize,
		FileCount:  fileCount,
		DirCount:   dirCount,
		ErrorCount: errorCount,
	}, nil
}
