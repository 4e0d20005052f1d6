package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fsinv/fsinv/internal/record"
)

const insertRecordSQL = `INSERT INTO records
 (inode, parent_inode, depth, filename, extension, uid, gid, size, st_dev,
  st_blocks, st_nlink, st_mode, atime, mtime, ctime, file_count, dir_sum, is_hardlink)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertErrorSQL = `INSERT INTO scan_errors (path, message) VALUES (?, ?)`

const defaultBatchSize = 10000

// maxErrorsStored bounds the persisted error sample; the full list still
// travels with the scan result in memory.
const maxErrorsStored = 1000

// Writer batches records into the database and finalizes metadata on Close.
type Writer struct {
	db        *sql.DB
	rootPath  string
	startTime time.Time
	batchSize int

	batch []record.Record
	stmt  *sql.Stmt

	files      int64
	dirs       int64
	totalSize  int64
	errorCount int64
}

// NewWriter initializes the schema, applies write pragmas, and records the
// scan start in scan_meta.
func NewWriter(database *sql.DB, rootPath string, startTime time.Time) (*Writer, error) {
	if err := ApplyWritePragmas(database); err != nil {
		return nil, err
	}
	if err := InitSchema(database); err != nil {
		return nil, err
	}

	if _, err := database.Exec(
		`INSERT INTO scan_meta (id, root_path, start_time) VALUES (1, ?, ?)`,
		rootPath, startTime.Unix(),
	); err != nil {
		return nil, fmt.Errorf("failed to init scan metadata: %w", err)
	}

	stmt, err := database.Prepare(insertRecordSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare record statement: %w", err)
	}

	return &Writer{
		db:        database,
		rootPath:  rootPath,
		startTime: startTime,
		batchSize: defaultBatchSize,
		batch:     make([]record.Record, 0, defaultBatchSize),
		stmt:      stmt,
	}, nil
}

// Add buffers one record, flushing a transaction when the batch fills.
func (w *Writer) Add(rec *record.Record) error {
	w.batch = append(w.batch, *rec)
	if rec.Kind == record.KindDir {
		w.dirs++
	} else {
		w.files++
		w.totalSize += rec.Size
	}
	if len(w.batch) >= w.batchSize {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.batch) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(w.stmt)
	for i := range w.batch {
		rec := &w.batch[i]
		_, err := stmt.Exec(
			int64(rec.Inode), int64(rec.ParentInode), rec.Depth,
			rec.Name, rec.Extension,
			rec.UID, rec.GID, rec.Size, int64(rec.Dev),
			rec.Blocks, int64(rec.Nlink), rec.Mode,
			rec.Atime, rec.Mtime, rec.Ctime,
			rec.FileCount, rec.DirSum, rec.IsHardlink,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.batch = w.batch[:0]
	return nil
}

// RecordErrors persists a bounded sample of the entry-level error list.
func (w *Writer) RecordErrors(errs []record.ScanError) error {
	w.errorCount = int64(len(errs))
	if len(errs) == 0 {
		return nil
	}
	if len(errs) > maxErrorsStored {
		errs = errs[:maxErrorsStored]
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin error transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertErrorSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare error statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range errs {
		msg := ""
		if e.Cause != nil {
			msg = e.Cause.Error()
		}
		if _, err := stmt.Exec(e.Path, msg); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert error for %q: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit error transaction: %w", err)
	}

	return nil
}

// Close flushes the remaining batch, finalizes scan_meta, builds indexes,
// and closes the database.
func (w *Writer) Close() error {
	flushErr := w.flush()
	w.stmt.Close()

	if flushErr == nil {
		_, flushErr = w.db.Exec(
			`UPDATE scan_meta SET end_time = ?, total_size = ?, file_count = ?, dir_count = ?, error_count = ? WHERE id = 1`,
			time.Now().Unix(), w.totalSize, w.files, w.dirs, w.errorCount,
		)
	}
	if flushErr == nil {
		flushErr = BuildIndexes(w.db)
	}
	if flushErr == nil {
		flushErr = Finalize(w.db)
	}

	closeErr := w.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
