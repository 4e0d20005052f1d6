// Package probe issues the per-entry status syscall and normalizes the
// result into a record.Record.
package probe

import (
	"os"
	"path/filepath"

	"github.com/fsinv/fsinv/internal/record"
)

// Probe performs exactly one lstat on path and returns a normalized Record.
//
// When follow is true and path is a symbolic link, the link target's status
// is used instead and followed reports that substitution. Probe never
// retries; failures are returned with the path attached for the caller's
// error collector.
//
// Depth and ParentInode are left zero for the caller to fill in.
func Probe(path string, follow bool) (rec record.Record, followed bool, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return record.Record{}, false, record.ScanError{Path: path, Cause: err}
	}

	if follow && info.Mode()&os.ModeSymlink != 0 {
		target, terr := os.Stat(path)
		if terr != nil {
			// Dangling link: fall back to the link's own metadata.
			rec = normalize(path, info)
			return rec, false, nil
		}
		info = target
		followed = true
	}

	return normalize(path, info), followed, nil
}

func normalize(path string, info os.FileInfo) record.Record {
	name := filepath.Base(path)
	rec := record.Record{
		Name:      name,
		Extension: record.ExtensionOf(name),
		Size:      info.Size(),
		Kind:      record.KindFromMode(info.Mode()),
	}
	fillSys(&rec, info)
	return rec
}
