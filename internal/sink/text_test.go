package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/fsinv/fsinv/internal/record"
)

func sampleRecords() []record.Record {
	return []record.Record{
		{
			Inode: 101, ParentInode: 100, Depth: 1,
			Name: "notes.txt", Extension: "txt",
			UID: 1000, GID: 1000, Size: 2048, Dev: 64769,
			Blocks: 8, Nlink: 1, Mode: 0o100644,
			Atime: 1700000001, Mtime: 1700000002, Ctime: 1700000003,
			FileCount: record.FileCountUnset, DirSum: 0,
			Kind: record.KindFile,
		},
		{
			Inode: 100, ParentInode: 0, Depth: 0,
			Name: "data", Extension: "",
			UID: 1000, GID: 1000, Size: 2048, Dev: 64769,
			Blocks: 8, Nlink: 2, Mode: 0o40755,
			Atime: 1700000004, Mtime: 1700000005, Ctime: 1700000006,
			FileCount: 1, DirSum: 2048,
			Kind: record.KindDir,
		},
	}
}

func writeTextReport(t *testing.T, compress string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.out")
	s, err := newTextSink(path, compress)
	if err != nil {
		t.Fatalf("newTextSink: %v", err)
	}
	for _, rec := range sampleRecords() {
		if err := s.Write(&rec); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestTextHeaderAndRows(t *testing.T) {
	path := writeTextReport(t, CompressNone)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), data)
	}

	wantHeader := `inode,parent-inode,directory-depth,"filename","fileExtension",` +
		`UID,GID,st_size,st_dev,st_blocks,st_nlink,"st_mode",` +
		`st_atime,st_mtime,st_ctime,pw_fcount,pw_dirsum`
	if lines[0] != wantHeader {
		t.Fatalf("header mismatch:\ngot  %s\nwant %s", lines[0], wantHeader)
	}

	wantFile := `101,100,1,"notes.txt","txt",1000,1000,2048,64769,8,1,"100644",` +
		`1700000001,1700000002,1700000003,-1,0`
	if lines[1] != wantFile {
		t.Fatalf("file row mismatch:\ngot  %s\nwant %s", lines[1], wantFile)
	}

	wantDir := `100,0,0,"data","",1000,1000,2048,64769,8,2,"40755",` +
		`1700000004,1700000005,1700000006,1,2048`
	if lines[2] != wantDir {
		t.Fatalf("dir row mismatch:\ngot  %s\nwant %s", lines[2], wantDir)
	}
}

func TestTextQuoteEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	s, err := newTextSink(path, CompressNone)
	if err != nil {
		t.Fatalf("newTextSink: %v", err)
	}
	rec := record.Record{Name: `odd"name.txt`, Extension: "txt", FileCount: record.FileCountUnset}
	if err := s.Write(&rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte(`"odd""name.txt"`)) {
		t.Fatalf("embedded quote not doubled:\n%s", data)
	}
}

func TestTextZstdRoundtrip(t *testing.T) {
	path := writeTextReport(t, CompressZstd)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertDecodedReport(t, decoded)
}

func TestTextGzipRoundtrip(t *testing.T) {
	path := writeTextReport(t, CompressGzip)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gr.Close()

	decoded, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertDecodedReport(t, decoded)
}

func assertDecodedReport(t *testing.T, decoded []byte) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(string(decoded), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("decoded stream has %d lines, want 3:\n%s", len(lines), decoded)
	}
	if !strings.HasPrefix(lines[0], "inode,parent-inode,") {
		t.Fatalf("decoded header missing: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"notes.txt"`) {
		t.Fatalf("decoded row missing: %s", lines[1])
	}
}
