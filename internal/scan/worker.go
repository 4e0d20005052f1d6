package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsinv/fsinv/internal/probe"
	"github.com/fsinv/fsinv/internal/record"
)

// ErrSymlinkCycle marks a symlinked directory whose target already appears
// on the current path from the root.
var ErrSymlinkCycle = errors.New("symlink cycle detected")

type dirWork struct {
	path string
	node *node
}

// worker expands directories until the queue is closed or the scan aborts.
type worker struct {
	id    int
	s     *Scanner
	stack []dirWork
}

func (w *worker) run(ctx context.Context) {
	for {
		if len(w.stack) > 0 {
			work := w.stack[len(w.stack)-1]
			w.stack = w.stack[:len(w.stack)-1]
			w.process(ctx, work)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case work, ok := <-w.s.dirQueue:
			if !ok {
				return
			}
			w.process(ctx, work)
		}
	}
}

// process lists one directory, probes every child, expands subdirectories,
// and completes the node. A listing failure is reported and treated as an
// empty listing so the partial aggregate still finalizes normally.
func (w *worker) process(ctx context.Context, work dirWork) {
	n := work.node

	dirEntries, err := os.ReadDir(work.path)
	if err != nil {
		w.s.reportError(work.path, err)
		dirEntries = nil
	}

	var files, bytes int64
	for i, de := range dirEntries {
		if i%128 == 0 && ctx.Err() != nil {
			return
		}

		name := de.Name()
		childPath := filepath.Join(work.path, name)

		if de.IsDir() && w.s.opts.skipDirName(name) {
			continue
		}
		if w.s.opts.shouldExclude(childPath) {
			continue
		}

		rec, _, err := probe.Probe(childPath, w.s.opts.FollowSymlinks)
		if err != nil {
			w.s.reportError(childPath, err)
			continue
		}
		rec.Depth = n.rec.Depth + 1
		rec.ParentInode = n.rec.Inode
		rec.IsHardlink = w.s.links.observe(rec.Dev, rec.Inode, rec.Nlink)

		if rec.IsDir() {
			// A followed symlink can reach a directory named .snapshot
			// that the DirEntry check above could not see.
			if w.s.opts.skipDirName(name) {
				continue
			}
			if w.s.opts.FollowSymlinks && n.onPath(rec.Dev, rec.Inode) {
				w.s.reportError(childPath, ErrSymlinkCycle)
				if leaf, _, lerr := probe.Probe(childPath, false); lerr == nil {
					leaf.Depth = rec.Depth
					leaf.ParentInode = rec.ParentInode
					leaf.FileCount = record.FileCountUnset
					w.s.emit(leaf)
					files++
					bytes += leaf.Size
				}
				continue
			}
			child := &node{parent: n, rec: rec}
			n.addChild()
			w.enqueue(ctx, dirWork{path: childPath, node: child})
			if ctx.Err() != nil {
				return
			}
			continue
		}

		rec.FileCount = record.FileCountUnset
		w.s.emit(rec)
		files++
		bytes += rec.Size
	}

	if n.completeListing(files, bytes) {
		w.s.finalize(n)
	}
}

// enqueue pushes expansion work, spilling onto the local stack when the
// queue is full so a worker never blocks on its own output.
func (w *worker) enqueue(ctx context.Context, work dirWork) {
	if ctx.Err() != nil {
		return
	}
	select {
	case w.s.dirQueue <- work:
	default:
		w.stack = append(w.stack, work)
	}
}
