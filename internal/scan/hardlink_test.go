package scan

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestObserveSingleLink(t *testing.T) {
	var tr hardlinkTracker
	if tr.observe(1, 100, 1) {
		t.Fatalf("nlink=1 flagged as hardlink")
	}
	if tr.observe(1, 100, 1) {
		t.Fatalf("repeat of nlink=1 flagged as hardlink")
	}
}

func TestObserveDuplicates(t *testing.T) {
	var tr hardlinkTracker
	if tr.observe(1, 100, 2) {
		t.Fatalf("first occurrence flagged")
	}
	if !tr.observe(1, 100, 2) {
		t.Fatalf("second occurrence not flagged")
	}
	// Same inode on a different device is a different file.
	if tr.observe(2, 100, 2) {
		t.Fatalf("same-inode different-device flagged")
	}
}

func TestObserveConcurrent(t *testing.T) {
	var tr hardlinkTracker
	const goroutines = 64

	var firsts int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if !tr.observe(7, 42, uint64(goroutines)) {
				atomic.AddInt64(&firsts, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if firsts != 1 {
		t.Fatalf("%d goroutines saw first occurrence, want exactly 1", firsts)
	}
}
