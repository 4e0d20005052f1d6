// Package walkcompat provides a sequential iterator over a tree, yielding
// one directory at a time as (path, subdirs, files). It exists for callers
// ported from generator-style walkers; the parallel engine in internal/scan
// is the fast path.
package walkcompat

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsinv/fsinv/internal/probe"
	"github.com/fsinv/fsinv/internal/scan"
)

// ErrSymlinkCycle marks a symlinked directory already on the current path.
var ErrSymlinkCycle = errors.New("symlink cycle detected")

// Dir is one yielded directory: its path plus the names of its immediate
// subdirectories and non-directory children, each sorted by name.
type Dir struct {
	Path    string
	Subdirs []string
	Files   []string
}

// Options configures a sequential walk.
type Options struct {
	// TopDown yields a directory before its subdirectories; otherwise after.
	TopDown bool

	// FollowSymlinks descends into symlinked directories, with cycle
	// detection along the current path.
	FollowSymlinks bool

	// SkipSnapshots excludes directories literally named ".snapshot".
	SkipSnapshots bool

	// OnError is called for listing or status failures; the walk continues.
	OnError func(path string, err error)

	// Prune filters a directory's subdirectory names before any of them is
	// expanded (or yielded). Nil keeps all.
	Prune func(dir string, subdirs []string) []string
}

// DefaultOptions matches the engine's defaults: top-down, no symlink
// expansion, .snapshot skipped.
func DefaultOptions() Options {
	return Options{TopDown: true, SkipSnapshots: true}
}

type pathKey struct {
	dev uint64
	ino uint64
}

// Walk returns a single-use iterator over the tree rooted at root.
func Walk(root string, opts Options) iter.Seq[Dir] {
	return func(yield func(Dir) bool) {
		w := &walker{opts: opts, yield: yield}
		if opts.FollowSymlinks {
			w.onPath = make(map[pathKey]struct{})
			if rec, _, err := probe.Probe(root, true); err == nil {
				w.onPath[pathKey{rec.Dev, rec.Inode}] = struct{}{}
			}
		}
		w.walk(root)
	}
}

type walker struct {
	opts   Options
	yield  func(Dir) bool
	onPath map[pathKey]struct{}
}

// walk reports whether iteration should continue.
func (w *walker) walk(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.reportError(dir, err)
		entries = nil
	}

	var subdirs, files []string
	for _, de := range entries {
		name := de.Name()
		switch {
		case de.IsDir():
			if w.skip(name) {
				continue
			}
			subdirs = append(subdirs, name)
		case de.Type()&os.ModeSymlink != 0 && w.opts.FollowSymlinks:
			rec, _, perr := probe.Probe(filepath.Join(dir, name), true)
			if perr != nil {
				w.reportError(filepath.Join(dir, name), perr)
				continue
			}
			if rec.IsDir() {
				if w.skip(name) {
					continue
				}
				subdirs = append(subdirs, name)
			} else {
				files = append(files, name)
			}
		default:
			files = append(files, name)
		}
	}

	if w.opts.Prune != nil {
		subdirs = w.opts.Prune(dir, subdirs)
	}

	if w.opts.TopDown {
		if !w.yield(Dir{Path: dir, Subdirs: subdirs, Files: files}) {
			return false
		}
	}

	for _, name := range subdirs {
		child := filepath.Join(dir, name)
		if w.opts.FollowSymlinks {
			rec, _, perr := probe.Probe(child, true)
			if perr != nil {
				w.reportError(child, perr)
				continue
			}
			key := pathKey{rec.Dev, rec.Inode}
			if _, seen := w.onPath[key]; seen {
				w.reportError(child, ErrSymlinkCycle)
				continue
			}
			w.onPath[key] = struct{}{}
			ok := w.walk(child)
			delete(w.onPath, key)
			if !ok {
				return false
			}
			continue
		}
		if !w.walk(child) {
			return false
		}
	}

	if !w.opts.TopDown {
		return w.yield(Dir{Path: dir, Subdirs: subdirs, Files: files})
	}
	return true
}

func (w *walker) skip(name string) bool {
	return w.opts.SkipSnapshots && name == scan.SnapshotDirName
}

func (w *walker) reportError(path string, err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(path, err)
	}
}
