package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsinv/fsinv/internal/record"
)

// textHeader is the fixed header row of the text tabular format. The column
// order and quoting are load-bearing for downstream capacity tooling.
const textHeader = "inode,parent-inode,directory-depth,\"filename\",\"fileExtension\"," +
	"UID,GID,st_size,st_dev,st_blocks,st_nlink,\"st_mode\"," +
	"st_atime,st_mtime,st_ctime,pw_fcount,pw_dirsum\n"

const textBufferSize = 512 * 1024

// textSink renders one comma-separated row per record, string fields
// double-quoted, st_mode as quoted octal.
type textSink struct {
	f    *os.File
	comp io.WriteCloser
	w    *bufio.Writer
}

func newTextSink(path, compress string) (*textSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output %q: %w", path, err)
	}
	comp, err := newCompressor(f, compress)
	if err != nil {
		f.Close()
		return nil, err
	}
	w := bufio.NewWriterSize(comp, textBufferSize)
	if _, err := w.WriteString(textHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &textSink{f: f, comp: comp, w: w}, nil
}

func (s *textSink) Write(rec *record.Record) error {
	_, err := fmt.Fprintf(s.w, "%d,%d,%d,\"%s\",\"%s\",%d,%d,%d,%d,%d,%d,\"%o\",%d,%d,%d,%d,%d\n",
		rec.Inode, rec.ParentInode, rec.Depth,
		csvEscape(rec.Name), csvEscape(rec.Extension),
		rec.UID, rec.GID, rec.Size, rec.Dev, rec.Blocks, rec.Nlink, rec.Mode,
		rec.Atime, rec.Mtime, rec.Ctime, rec.FileCount, rec.DirSum)
	return err
}

func (s *textSink) Close() error {
	flushErr := s.w.Flush()
	compErr := s.comp.Close()
	closeErr := s.f.Close()
	if flushErr != nil {
		return flushErr
	}
	if compErr != nil {
		return compErr
	}
	return closeErr
}

// csvEscape doubles embedded quotes, matching the report's quoting rules.
func csvEscape(s string) string {
	if !strings.ContainsRune(s, '"') {
		return s
	}
	return strings.ReplaceAll(s, `"`, `""`)
}
