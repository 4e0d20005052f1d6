// Package sink serializes finalized records to the configured report
// format. Sinks are single-writer: the engine funnels all records through
// one goroutine, so implementations need no locking.
package sink

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsinv/fsinv/internal/record"
)

// Report formats.
const (
	FormatText     = "text"
	FormatColumnar = "columnar"
	FormatSQLite   = "sqlite"
)

// Compression selectors.
const (
	CompressNone = "none"
	CompressZstd = "zstd"
	CompressGzip = "gzip"
)

// defaultBaseName is the stem of the default output filename.
const defaultBaseName = "scan"

var (
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidCompression = errors.New("invalid compression")
	ErrOutputIsDirectory  = errors.New("output path is a directory")
)

// Sink consumes finalized records in fold order and serializes them.
type Sink interface {
	Write(rec *record.Record) error
	Close() error
}

// ErrorRecorder is implemented by sinks that can persist the scan's
// entry-level error list alongside the records.
type ErrorRecorder interface {
	RecordErrors(errs []record.ScanError) error
}

// Meta carries scan-level metadata for sinks that store it.
type Meta struct {
	RootPath  string
	StartTime time.Time
}

// Resolve validates the format and compression selectors and returns the
// output path, deriving the default name when none is given. It fails
// before anything is written.
func Resolve(format, compress, outputPath string) (string, error) {
	var ext string
	switch format {
	case FormatText:
		ext = ".csv"
	case FormatColumnar:
		ext = ".parquet"
	case FormatSQLite:
		ext = ".db"
	default:
		return "", fmt.Errorf("%w: %q (expected text|columnar|sqlite)", ErrInvalidFormat, format)
	}

	var suffix string
	switch compress {
	case CompressNone:
	case CompressZstd:
		suffix = ".zst"
	case CompressGzip:
		suffix = ".gz"
	default:
		return "", fmt.Errorf("%w: %q (expected none|zstd|gzip)", ErrInvalidCompression, compress)
	}

	if format == FormatSQLite && compress != CompressNone {
		return "", fmt.Errorf("%w: sqlite output cannot be stream-compressed", ErrInvalidCompression)
	}

	if outputPath == "" {
		outputPath = defaultBaseName + ext + suffix
	}

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrOutputIsDirectory, outputPath)
	}

	return outputPath, nil
}

// Open creates the sink for an already-resolved output path.
func Open(format, compress, path string, meta Meta) (Sink, error) {
	switch format {
	case FormatText:
		return newTextSink(path, compress)
	case FormatColumnar:
		return newColumnarSink(path, compress)
	case FormatSQLite:
		return newSQLiteSink(path, meta)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
}
