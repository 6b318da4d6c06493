package wasm

import (
	"bytes"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasmparse/wasm/internal/binary"
)

// DefaultMaxAllocation caps a single length-prefixed allocation when the
// size of the input stream is not known.
const DefaultMaxAllocation = int64(binary.DefaultMaxAllocation)

// Options configures a parse. The zero value is ready to use.
type Options struct {
	// Logger overrides the package logger for this parse.
	Logger *zap.Logger

	// MaxAllocation caps the size of any single buffer sized from a length
	// prefix. Zero means the stream size when it is known, otherwise
	// DefaultMaxAllocation.
	MaxAllocation int64

	// SkipLengthCheck tolerates sections whose decoder stops before the
	// declared payload length; the leftover bytes are discarded. Reads past
	// the declared length always fail. A complete section whose payload is
	// cut short by the end of input is accepted either way.
	SkipLengthCheck bool
}

func (o *Options) logger() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return Logger()
}

// maxAllocation resolves the allocation cap for the given source.
func (o *Options) maxAllocation(r io.Reader) uint64 {
	if o != nil && o.MaxAllocation > 0 {
		return uint64(o.MaxAllocation)
	}
	if size, ok := streamSize(r); ok && size > 0 {
		return uint64(size)
	}
	return binary.DefaultMaxAllocation
}

func (o *Options) skipLengthCheck() bool {
	return o != nil && o.SkipLengthCheck
}

// streamSize reports how many bytes r will yield, for the sources where
// that is known without reading.
func streamSize(r io.Reader) (int64, bool) {
	switch src := r.(type) {
	case *bytes.Reader:
		return int64(src.Len()), true
	case *bytes.Buffer:
		return int64(src.Len()), true
	case *strings.Reader:
		return int64(src.Len()), true
	case *os.File:
		info, err := src.Stat()
		if err != nil || !info.Mode().IsRegular() {
			return 0, false
		}
		return info.Size(), true
	}
	return 0, false
}
