package scan

import (
	"sync/atomic"

	"github.com/fsinv/fsinv/internal/record"
)

// collector accumulates per-entry failures without aborting the scan.
// A single goroutine drains the error channel; workers only send.
type collector struct {
	count int64
	errs  []record.ScanError
}

func (c *collector) run(in <-chan record.ScanError, done chan<- struct{}) {
	for e := range in {
		atomic.AddInt64(&c.count, 1)
		c.errs = append(c.errs, e)
	}
	close(done)
}

// Count is safe to call while the scan is running.
func (c *collector) Count() int64 {
	return atomic.LoadInt64(&c.count)
}
