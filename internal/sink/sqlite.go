package sink

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/fsinv/fsinv/internal/db"
	"github.com/fsinv/fsinv/internal/record"
)

// sqliteSink stores the record set in a sqlite report database. It also
// persists the scan error sample, so it implements ErrorRecorder.
type sqliteSink struct {
	w *db.Writer
}

func newSQLiteSink(path string, meta Meta) (*sqliteSink, error) {
	// A stale report at the same path would merge with this scan's rows.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to replace output %q: %w", path, err)
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	w, err := db.NewWriter(database, meta.RootPath, meta.StartTime)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &sqliteSink{w: w}, nil
}

func (s *sqliteSink) Write(rec *record.Record) error {
	return s.w.Add(rec)
}

func (s *sqliteSink) RecordErrors(errs []record.ScanError) error {
	return s.w.RecordErrors(errs)
}

func (s *sqliteSink) Close() error {
	return s.w.Close()
}
