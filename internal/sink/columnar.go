package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/fsinv/fsinv/internal/record"
)

// columnarRow is the fixed typed schema of the columnar format. It is
// identical across runs regardless of the data observed, so downstream
// tools can rely on column presence and type even for empty scans.
type columnarRow struct {
	Inode       int64  `parquet:"inode"`
	ParentInode int64  `parquet:"parent_inode"`
	Depth       int32  `parquet:"depth"`
	Filename    string `parquet:"filename"`
	Extension   string `parquet:"extension"`
	UID         int32  `parquet:"uid"`
	GID         int32  `parquet:"gid"`
	Size        int64  `parquet:"size"`
	Dev         int64  `parquet:"st_dev"`
	Blocks      int64  `parquet:"st_blocks"`
	Nlink       int64  `parquet:"st_nlink"`
	Mode        int32  `parquet:"st_mode"`
	Atime       int64  `parquet:"atime"`
	Mtime       int64  `parquet:"mtime"`
	Ctime       int64  `parquet:"ctime"`
	FileCount   int64  `parquet:"file_count"`
	DirSum      int64  `parquet:"dir_sum"`
	IsHardlink  bool   `parquet:"is_hardlink"`
}

const columnarBatchSize = 4096

// columnarSink writes parquet row groups in batches through the optional
// compression wrapper.
type columnarSink struct {
	f     *os.File
	comp  io.WriteCloser
	w     *parquet.GenericWriter[columnarRow]
	batch []columnarRow
}

func newColumnarSink(path, compress string) (*columnarSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output %q: %w", path, err)
	}
	comp, err := newCompressor(f, compress)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &columnarSink{
		f:     f,
		comp:  comp,
		w:     parquet.NewGenericWriter[columnarRow](comp),
		batch: make([]columnarRow, 0, columnarBatchSize),
	}, nil
}

func (s *columnarSink) Write(rec *record.Record) error {
	s.batch = append(s.batch, columnarRow{
		Inode:       int64(rec.Inode),
		ParentInode: int64(rec.ParentInode),
		Depth:       int32(rec.Depth),
		Filename:    rec.Name,
		Extension:   rec.Extension,
		UID:         int32(rec.UID),
		GID:         int32(rec.GID),
		Size:        rec.Size,
		Dev:         int64(rec.Dev),
		Blocks:      rec.Blocks,
		Nlink:       int64(rec.Nlink),
		Mode:        int32(rec.Mode),
		Atime:       rec.Atime,
		Mtime:       rec.Mtime,
		Ctime:       rec.Ctime,
		FileCount:   rec.FileCount,
		DirSum:      rec.DirSum,
		IsHardlink:  rec.IsHardlink,
	})
	if len(s.batch) >= columnarBatchSize {
		return s.flush()
	}
	return nil
}

func (s *columnarSink) flush() error {
	if len(s.batch) == 0 {
		return nil
	}
	if _, err := s.w.Write(s.batch); err != nil {
		return fmt.Errorf("failed to write parquet batch: %w", err)
	}
	s.batch = s.batch[:0]
	return nil
}

func (s *columnarSink) Close() error {
	flushErr := s.flush()
	wErr := s.w.Close()
	compErr := s.comp.Close()
	closeErr := s.f.Close()
	if flushErr != nil {
		return flushErr
	}
	if wErr != nil {
		return wErr
	}
	if compErr != nil {
		return compErr
	}
	return closeErr
}
