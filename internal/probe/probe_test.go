package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsinv/fsinv/internal/record"
)

func TestProbeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rec, followed, err := Probe(path, false)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if followed {
		t.Fatalf("regular file reported as followed")
	}
	if rec.Kind != record.KindFile {
		t.Fatalf("kind = %v, want file", rec.Kind)
	}
	if rec.Name != "data.bin" || rec.Extension != "bin" {
		t.Fatalf("name/ext = %q/%q", rec.Name, rec.Extension)
	}
	if rec.Size != 11 {
		t.Fatalf("size = %d, want 11", rec.Size)
	}
	if rec.Inode == 0 {
		t.Fatalf("inode not populated")
	}
	if rec.Mtime == 0 {
		t.Fatalf("mtime not populated")
	}
}

func TestProbeMissing(t *testing.T) {
	_, _, err := Probe(filepath.Join(t.TempDir(), "gone"), false)
	if err == nil {
		t.Fatalf("expected error for missing path")
	}
	var se record.ScanError
	if !asScanError(err, &se) {
		t.Fatalf("error is %T, want record.ScanError", err)
	}
	if se.Path == "" || se.Cause == nil {
		t.Fatalf("scan error missing path or cause: %+v", se)
	}
}

func TestProbeSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rec, followed, err := Probe(link, false)
	if err != nil {
		t.Fatalf("probe link: %v", err)
	}
	if followed || rec.Kind != record.KindSymlink {
		t.Fatalf("unfollowed link: followed=%v kind=%v", followed, rec.Kind)
	}

	rec, followed, err = Probe(link, true)
	if err != nil {
		t.Fatalf("probe followed link: %v", err)
	}
	if !followed || rec.Kind != record.KindDir {
		t.Fatalf("followed link: followed=%v kind=%v", followed, rec.Kind)
	}
}

func TestProbeDanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rec, followed, err := Probe(link, true)
	if err != nil {
		t.Fatalf("probe dangling link: %v", err)
	}
	if followed || rec.Kind != record.KindSymlink {
		t.Fatalf("dangling link should fall back to link metadata: followed=%v kind=%v", followed, rec.Kind)
	}
}

func asScanError(err error, out *record.ScanError) bool {
	se, ok := err.(record.ScanError)
	if ok {
		*out = se
	}
	return ok
}
