package scan

import "sync"

type devino struct {
	dev uint64
	ino uint64
}

// hardlinkTracker registers (device, inode) pairs observed during one scan.
// Scoped per scan so concurrent scans never interfere.
type hardlinkTracker struct {
	seen sync.Map // devino -> struct{}
}

// observe returns true iff the pair has a link count above one and was
// already registered by an earlier call. The check and the registration are
// a single LoadOrStore, so exactly one caller sees "first occurrence"
// regardless of interleaving.
func (t *hardlinkTracker) observe(dev, ino, nlink uint64) bool {
	if nlink < 2 {
		return false
	}
	_, loaded := t.seen.LoadOrStore(devino{dev, ino}, struct{}{})
	return loaded
}
