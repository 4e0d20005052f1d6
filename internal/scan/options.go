package scan

import (
	"os"
	"regexp"
	"runtime"
	"strconv"
)

// SnapshotDirName is the directory name excluded by default. NFS appliances
// expose point-in-time copies under this name inside every directory.
const SnapshotDirName = ".snapshot"

// Options configures a scan request.
type Options struct {
	// OutputPath is the report destination. Empty selects a default name
	// derived from the format ("scan" + extension).
	OutputPath string

	// Format selects the report encoding: text, columnar, or sqlite.
	Format string

	// Compress selects the streaming compression wrapper: none, zstd, or gzip.
	Compress string

	// Workers is the number of concurrent directory processors.
	Workers int

	// SkipSnapshots excludes directories literally named ".snapshot".
	SkipSnapshots bool

	// FollowSymlinks expands symlinked directories, with cycle detection.
	FollowSymlinks bool

	// ExcludePatterns are regular expressions for paths to skip entirely.
	ExcludePatterns []*regexp.Regexp

	// Verbose enables diagnostic logging to stderr.
	Verbose bool
}

// DefaultOptions returns sensible defaults for scanning.
func DefaultOptions() *Options {
	return &Options{
		Format:        "text",
		Compress:      "none",
		Workers:       DefaultWorkers(),
		SkipSnapshots: true,
	}
}

// DefaultWorkers returns the scheduler-provided CPU allotment when running
// under SLURM, otherwise the detected processor count.
func DefaultWorkers() int {
	if v := os.Getenv("SLURM_CPUS_ON_NODE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// WithWorkers sets the number of workers.
func (o *Options) WithWorkers(n int) *Options {
	o.Workers = n
	return o
}

// WithFormat sets the report encoding.
func (o *Options) WithFormat(format string) *Options {
	o.Format = format
	return o
}

// WithCompress sets the compression wrapper.
func (o *Options) WithCompress(compress string) *Options {
	o.Compress = compress
	return o
}

// WithOutputPath sets the report destination.
func (o *Options) WithOutputPath(path string) *Options {
	o.OutputPath = path
	return o
}

// WithSkipSnapshots sets .snapshot exclusion.
func (o *Options) WithSkipSnapshots(skip bool) *Options {
	o.SkipSnapshots = skip
	return o
}

// WithFollowSymlinks sets symlink expansion.
func (o *Options) WithFollowSymlinks(follow bool) *Options {
	o.FollowSymlinks = follow
	return o
}

// WithVerbose sets diagnostic logging.
func (o *Options) WithVerbose(verbose bool) *Options {
	o.Verbose = verbose
	return o
}

// AddExcludePattern adds a regex pattern for paths to skip.
func (o *Options) AddExcludePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	o.ExcludePatterns = append(o.ExcludePatterns, re)
	return nil
}

// shouldExclude checks if a path matches any exclude pattern.
func (o *Options) shouldExclude(path string) bool {
	for _, re := range o.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// skipDirName checks if a directory name is pruned from traversal.
func (o *Options) skipDirName(name string) bool {
	return o.SkipSnapshots && name == SnapshotDirName
}
