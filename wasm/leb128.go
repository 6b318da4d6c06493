package wasm

import (
	"fmt"
	"io"

	"github.com/wippyai/wasmparse/wasm/internal/binary"
)

// LEB128 encoding/decoding utilities for the WebAssembly binary format.
// Decoding is bounded: a value of width bits takes at most ceil(width/7)
// bytes, and a value that does not fit its width fails with a
// malformed_leb128 error.

// DecodeUnsigned reads an unsigned LEB128 value of at most width bits (1 to 64)
// and returns it with the number of bytes consumed. Encodings longer than
// ceil(width/7) bytes fail with a malformed_leb128 error, and so does a final
// byte that sets bits above width: FF FF FF FF 1F is rejected at width 32.
func DecodeUnsigned(r io.ByteReader, width int) (uint64, int, error) {
	if width < 1 || width > 64 {
		return 0, 0, fmt.Errorf("leb128: unsupported width %d", width)
	}
	return binary.DecodeUnsigned(r, width, 0)
}

// DecodeSigned reads a signed LEB128 value of at most width bits (1 to 64)
// and returns it with the number of bytes consumed. Encodings longer than
// ceil(width/7) bytes fail with a malformed_leb128 error, and so does a final
// byte whose bits above width are not a sign extension: FF FF FF FF 0F is
// rejected at width 32 while FF FF FF FF 7F decodes to -1.
func DecodeSigned(r io.ByteReader, width int) (int64, int, error) {
	if width < 1 || width > 64 {
		return 0, 0, fmt.Errorf("leb128: unsupported width %d", width)
	}
	return binary.DecodeSigned(r, width, 0)
}

// ReadLEB128u reads an unsigned 32-bit LEB128 value
func ReadLEB128u(r io.ByteReader) (uint32, error) {
	v, _, err := binary.DecodeUnsigned(r, 32, 0)
	return uint32(v), err
}

// ReadLEB128u64 reads an unsigned 64-bit LEB128 value
func ReadLEB128u64(r io.ByteReader) (uint64, error) {
	v, _, err := binary.DecodeUnsigned(r, 64, 0)
	return v, err
}

// ReadLEB128s reads a signed 32-bit LEB128 value
func ReadLEB128s(r io.ByteReader) (int32, error) {
	v, _, err := binary.DecodeSigned(r, 32, 0)
	return int32(v), err
}

// ReadLEB128s64 reads a signed 64-bit LEB128 value
func ReadLEB128s64(r io.ByteReader) (int64, error) {
	v, _, err := binary.DecodeSigned(r, 64, 0)
	return v, err
}

// EncodeLEB128u returns the canonical unsigned LEB128 encoding of v
func EncodeLEB128u(v uint32) []byte {
	return binary.EncodeUnsigned(uint64(v))
}

// EncodeLEB128u64 returns the canonical unsigned LEB128 encoding of v
func EncodeLEB128u64(v uint64) []byte {
	return binary.EncodeUnsigned(v)
}

// EncodeLEB128s returns the canonical signed LEB128 encoding of v
func EncodeLEB128s(v int32) []byte {
	return binary.EncodeSigned(int64(v))
}

// EncodeLEB128s64 returns the canonical signed LEB128 encoding of v
func EncodeLEB128s64(v int64) []byte {
	return binary.EncodeSigned(v)
}
