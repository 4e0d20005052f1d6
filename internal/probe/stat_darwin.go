//go:build darwin

package probe

import (
	"os"
	"syscall"

	"github.com/fsinv/fsinv/internal/record"
)

// fillSys copies the raw stat fields out of the platform Stat_t.
func fillSys(rec *record.Record, info os.FileInfo) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		fillPortable(rec, info)
		return
	}
	rec.Inode = stat.Ino
	rec.Dev = uint64(stat.Dev)
	rec.Nlink = uint64(stat.Nlink)
	rec.UID = stat.Uid
	rec.GID = stat.Gid
	rec.Blocks = stat.Blocks
	rec.Mode = uint32(stat.Mode)
	rec.Atime = stat.Atimespec.Sec
	rec.Mtime = stat.Mtimespec.Sec
	rec.Ctime = stat.Ctimespec.Sec
}
