// Package db implements the sqlite report format: the full record set plus
// scan metadata and sampled errors in one portable file.
package db

import (
	"database/sql"
	"fmt"
)

const recordsTableDDL = `
CREATE TABLE IF NOT EXISTS records (
    inode INTEGER NOT NULL,
    parent_inode INTEGER NOT NULL,
    depth INTEGER NOT NULL,
    filename TEXT NOT NULL,
    extension TEXT NOT NULL,
    uid INTEGER NOT NULL,
    gid INTEGER NOT NULL,
    size INTEGER NOT NULL,
    st_dev INTEGER NOT NULL,
    st_blocks INTEGER NOT NULL,
    st_nlink INTEGER NOT NULL,
    st_mode INTEGER NOT NULL,
    atime INTEGER NOT NULL,
    mtime INTEGER NOT NULL,
    ctime INTEGER NOT NULL,
    file_count INTEGER NOT NULL,
    dir_sum INTEGER NOT NULL,
    is_hardlink INTEGER NOT NULL
);
`

const scanMetaTableDDL = `
CREATE TABLE IF NOT EXISTS scan_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    root_path TEXT NOT NULL,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    total_size INTEGER DEFAULT 0,
    file_count INTEGER DEFAULT 0,
    dir_count INTEGER DEFAULT 0,
    error_count INTEGER DEFAULT 0
);
`

const scanErrorsTableDDL = `
CREATE TABLE IF NOT EXISTS scan_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    message TEXT NOT NULL
);
`

const recordsParentIndexDDL = `CREATE INDEX IF NOT EXISTS idx_records_parent ON records(parent_inode);`
const recordsDepthIndexDDL = `CREATE INDEX IF NOT EXISTS idx_records_depth ON records(depth);`
const recordsDirSumIndexDDL = `CREATE INDEX IF NOT EXISTS idx_records_dirsum ON records(dir_sum DESC);`

// InitSchema creates all tables in the database.
func InitSchema(db *sql.DB) error {
	ddls := []string{
		recordsTableDDL,
		scanMetaTableDDL,
		scanErrorsTableDDL,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// ApplyWritePragmas configures SQLite for write throughput during ingestion.
func ApplyWritePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// BuildIndexes creates indexes after the initial data load.
func BuildIndexes(db *sql.DB) error {
	indexes := []string{
		recordsParentIndexDDL,
		recordsDepthIndexDDL,
		recordsDirSumIndexDDL,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Finalize prepares the database for read-only use.
func Finalize(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize: %w", err)
	}

	// Switch from WAL to DELETE for better portability
	if _, err := db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	return nil
}
