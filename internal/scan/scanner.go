// Package scan implements the parallel traversal-and-aggregation engine:
// a fixed worker pool expands directories over a shared queue, per-entry
// records fold bottom-up through an in-memory node tree, and finalized
// records stream to a single-writer sink.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsinv/fsinv/internal/pathutil"
	"github.com/fsinv/fsinv/internal/probe"
	"github.com/fsinv/fsinv/internal/record"
	"github.com/fsinv/fsinv/internal/sink"
)

// ErrRootNotDirectory is returned when the scan root is not a directory.
var ErrRootNotDirectory = errors.New("root is not a directory")

// Result is what a completed (possibly degraded) scan returns. Entry-level
// failures land in Errors and never abort the scan; callers inspect the
// list to detect partial results.
type Result struct {
	OutputPath string
	Files      int64
	Dirs       int64
	TotalBytes int64
	Errors     []record.ScanError
}

// Run validates the request, resolves and opens the report sink, and
// executes the scan. Configuration problems (bad format or compression
// selector, output path is a directory, missing root) fail before any
// traversal begins and before anything is written.
func Run(ctx context.Context, root string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	root = pathutil.Normalize(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", root, ErrRootNotDirectory)
	}

	outPath, err := sink.Resolve(opts.Format, opts.Compress, opts.OutputPath)
	if err != nil {
		return nil, err
	}

	snk, err := sink.Open(opts.Format, opts.Compress, outPath, sink.Meta{
		RootPath:  root,
		StartTime: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s := NewScanner(opts)
	res, runErr := s.run(ctx, root, snk)
	if res != nil {
		res.OutputPath = outPath
	}
	if runErr != nil {
		snk.Close()
		return res, runErr
	}

	if er, ok := snk.(sink.ErrorRecorder); ok {
		if err := er.RecordErrors(res.Errors); err != nil {
			snk.Close()
			return res, fmt.Errorf("failed to record scan errors: %w", err)
		}
	}
	if err := snk.Close(); err != nil {
		return res, fmt.Errorf("failed to finalize output: %w", err)
	}
	return res, nil
}

// Scanner coordinates one filesystem scan.
type Scanner struct {
	opts *Options
	root string

	dirQueue chan dirWork
	recCh    chan record.Record
	errCh    chan record.ScanError

	links hardlinkTracker
	coll  collector

	rootDone  chan struct{}
	rootOnce  sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup

	// Written only by the sink-writer goroutine, read after it exits.
	files      int64
	dirs       int64
	totalBytes int64
	sinkErr    error
}

// NewScanner creates a scanner for the given options.
func NewScanner(opts *Options) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	// Large queue so directories with many subdirs rarely spill onto the
	// per-worker overflow stacks.
	queueSize := workers * 4096
	if queueSize < 16384 {
		queueSize = 16384
	}
	return &Scanner{
		opts:     opts,
		dirQueue: make(chan dirWork, queueSize),
		recCh:    make(chan record.Record, 65536),
		errCh:    make(chan record.ScanError, 1024),
		rootDone: make(chan struct{}),
	}
}

// run executes the traversal against an already-open sink.
func (s *Scanner) run(ctx context.Context, root string, snk sink.Sink) (*Result, error) {
	s.root = root
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootRec, _, err := probe.Probe(root, true)
	if err != nil {
		return nil, fmt.Errorf("failed to probe root: %w", err)
	}
	s.links.observe(rootRec.Dev, rootRec.Inode, rootRec.Nlink)
	rootNode := &node{rec: rootRec}

	collDone := make(chan struct{})
	go s.coll.run(s.errCh, collDone)

	writerDone := make(chan struct{})
	go s.runSinkWriter(snk, cancel, writerDone)

	workers := s.opts.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		w := &worker{id: i, s: s}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			w.run(ctx)
		}()
	}

	if s.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[SCANNER] SEEDED root=%s workers=%d queueCap=%d\n",
			root, workers, cap(s.dirQueue))
	}

	select {
	case s.dirQueue <- dirWork{path: root, node: rootNode}:
	case <-ctx.Done():
	}

	// The root folding up is the termination signal: it cannot finalize
	// before every descendant has.
	select {
	case <-s.rootDone:
	case <-ctx.Done():
	}

	s.closeQueue()
	s.wg.Wait()
	close(s.recCh)
	close(s.errCh)
	<-writerDone
	<-collDone

	if s.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[SCANNER] DONE files=%d dirs=%d bytes=%d errors=%d\n",
			s.files, s.dirs, s.totalBytes, s.coll.Count())
	}

	res := &Result{
		Files:      s.files,
		Dirs:       s.dirs,
		TotalBytes: s.totalBytes,
		Errors:     s.coll.errs,
	}

	if s.sinkErr != nil {
		res.Errors = append(res.Errors, record.ScanError{Path: "output", Cause: s.sinkErr})
		return res, fmt.Errorf("sink write failed: %w", s.sinkErr)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// runSinkWriter is the single writer role: no other goroutine touches the
// sink, so rows and columnar batches are never interleaved. A write failure
// flips the scan-wide abort and the remaining records are drained and
// discarded to unblock workers.
func (s *Scanner) runSinkWriter(snk sink.Sink, cancel context.CancelFunc, done chan<- struct{}) {
	defer close(done)
	for rec := range s.recCh {
		if s.sinkErr != nil {
			continue
		}
		if err := snk.Write(&rec); err != nil {
			s.sinkErr = err
			cancel()
			continue
		}
		if rec.Kind == record.KindDir {
			s.dirs++
		} else {
			s.files++
			s.totalBytes += rec.Size
		}
	}
}

// finalize emits a directory's record and folds its aggregate one level up,
// chaining as long as each parent becomes complete in turn.
func (s *Scanner) finalize(n *node) {
	for {
		n.rec.FileCount = n.files
		n.rec.DirSum = n.bytes
		n.rec.Size = n.bytes
		s.emit(n.rec)

		p := n.parent
		if p == nil {
			s.rootOnce.Do(func() { close(s.rootDone) })
			return
		}
		if !p.fold(n.files, n.bytes) {
			return
		}
		n = p
	}
}

func (s *Scanner) emit(rec record.Record) {
	s.recCh <- rec
}

func (s *Scanner) reportError(path string, err error) {
	if s.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[SCANNER] ENTRY-ERR path=%s err=%v\n", path, err)
	}
	s.errCh <- record.ScanError{Path: path, Cause: err}
}

func (s *Scanner) closeQueue() {
	s.closeOnce.Do(func() {
		close(s.dirQueue)
	})
}

// ErrorCount returns the number of entry-level errors so far (safe for
// concurrent access).
func (s *Scanner) ErrorCount() int64 {
	return s.coll.Count()
}
