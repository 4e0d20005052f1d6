package scan

import (
	"sync"

	"github.com/fsinv/fsinv/internal/record"
)

// node mirrors one directory of the tree currently being aggregated.
//
// A node is owned by the worker listing it; the only cross-worker mutations
// are addChild and fold, both serialized by mu. The identity fields of rec
// (Inode, Dev, Depth) are set before the node becomes reachable and never
// change, so ancestor walks read them without locking.
type node struct {
	mu     sync.Mutex
	parent *node
	rec    record.Record

	pending int  // subdirectories not yet finalized
	listed  bool // own listing exhausted
	files   int64
	bytes   int64
}

// addChild registers one more outstanding subdirectory. Called by the
// owning worker while the listing is still open, so the node cannot
// finalize concurrently.
func (n *node) addChild() {
	n.mu.Lock()
	n.pending++
	n.mu.Unlock()
}

// completeListing folds the direct-file accumulators in and marks the
// listing exhausted. It reports whether the node is ready to finalize.
func (n *node) completeListing(files, bytes int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listed = true
	n.files += files
	n.bytes += bytes
	return n.pending == 0
}

// fold merges a finalized child's aggregate into n as one atomic step and
// reports whether n itself became ready to finalize. Updating the
// accumulators and the outstanding-children counter under one lock is what
// keeps two children finalizing concurrently from losing an update.
func (n *node) fold(files, bytes int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.files += files
	n.bytes += bytes
	n.pending--
	return n.pending == 0 && n.listed
}

// onPath reports whether (dev, ino) identifies n or any of its ancestors.
// Used for cycle detection when following symlinks.
func (n *node) onPath(dev, ino uint64) bool {
	for a := n; a != nil; a = a.parent {
		if a.rec.Dev == dev && a.rec.Inode == ino {
			return true
		}
	}
	return false
}
