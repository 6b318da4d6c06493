package wasmparse

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wippyai/wasmparse/wasm"
)

// Parse decodes a module from r. opts may be nil.
func Parse(r io.Reader, opts *wasm.Options) (*wasm.Module, error) {
	return wasm.ParseModuleWithOptions(r, opts)
}

// ParseBytes decodes a module held in memory. opts may be nil.
func ParseBytes(data []byte, opts *wasm.Options) (*wasm.Module, error) {
	return wasm.ParseModuleWithOptions(bytes.NewReader(data), opts)
}

// ParseFile decodes the module stored at path. opts may be nil.
// The file size bounds allocations unless opts sets MaxAllocation.
func ParseFile(path string, opts *wasm.Options) (*wasm.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open module: %w", err)
	}
	defer f.Close()

	m, err := wasm.ParseModuleWithOptions(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
