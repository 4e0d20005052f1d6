package record

import (
	"os"
	"strings"
)

// Kind represents the type of filesystem entry.
type Kind uint8

const (
	KindFile    Kind = 0
	KindDir     Kind = 1
	KindSymlink Kind = 2
	KindOther   Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// KindFromMode derives the Kind from an os.FileMode.
func KindFromMode(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindOther
	}
}

// FileCountUnset marks non-directory rows, which carry no aggregate.
const FileCountUnset = -1

// Record is one report row for a filesystem entry.
//
// For directories, FileCount and DirSum hold the recursive aggregate over
// the subtree once the directory is finalized; Size is then reused to carry
// the same byte sum. Non-directories carry FileCount = FileCountUnset and
// DirSum = 0.
type Record struct {
	Inode       uint64
	ParentInode uint64
	Depth       int
	Name        string
	Extension   string
	UID         uint32
	GID         uint32
	Size        int64 // Apparent size (st_size)
	Dev         uint64
	Blocks      int64 // Raw st_blocks (512-byte units)
	Nlink       uint64
	Mode        uint32 // Raw st_mode bits
	Atime       int64
	Mtime       int64
	Ctime       int64
	FileCount   int64
	DirSum      int64
	IsHardlink  bool
	Kind        Kind
}

// IsDir reports whether the record describes a directory.
func (r *Record) IsDir() bool {
	return r.Kind == KindDir
}

// ExtensionOf returns the substring after the last dot in name.
// A leading dot (dotfiles) does not start an extension.
func ExtensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx > 0 {
		return name[idx+1:]
	}
	return ""
}

// ScanError records a per-entry failure encountered during a scan.
type ScanError struct {
	Path  string
	Cause error
}

func (e ScanError) Error() string {
	if e.Cause == nil {
		return e.Path
	}
	return e.Path + ": " + e.Cause.Error()
}

func (e ScanError) Unwrap() error {
	return e.Cause
}
