package probe

import (
	"os"

	"github.com/fsinv/fsinv/internal/record"
)

// fillPortable approximates the raw stat fields from os.FileInfo alone,
// for platforms (or filesystems) without a syscall.Stat_t.
func fillPortable(rec *record.Record, info os.FileInfo) {
	mtime := info.ModTime().Unix()
	rec.Mode = uint32(info.Mode())
	rec.Nlink = 1
	rec.Atime = mtime
	rec.Mtime = mtime
	rec.Ctime = mtime
}
