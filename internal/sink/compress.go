package sink

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// newCompressor wraps w in the selected streaming compressor. CompressNone
// returns a pass-through so callers always hold a WriteCloser chain.
func newCompressor(w io.Writer, compress string) (io.WriteCloser, error) {
	switch compress {
	case CompressNone:
		return nopWriteCloser{w}, nil
	case CompressZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize zstd: %w", err)
		}
		return enc, nil
	case CompressGzip:
		return gzip.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidCompression, compress)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
