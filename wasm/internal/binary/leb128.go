package binary

import (
	"errors"
	"fmt"
	"io"

	wasmerrors "github.com/wippyai/wasmparse/errors"
)

// MaxBytes returns the LEB128 byte bound for a value of the given bit width.
func MaxBytes(width int) int {
	return (width + 6) / 7
}

// DecodeUnsigned reads an unsigned LEB128 value of at most width bits.
// It returns the value and the number of bytes consumed. base is the stream
// offset of the first byte and is only used for error reporting.
func DecodeUnsigned(r io.ByteReader, width int, base int64) (uint64, int, error) {
	maxBytes := MaxBytes(width)
	var result uint64
	var shift uint
	for n := 0; n < maxBytes; n++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, readError(err, base+int64(n))
		}
		if shift == 63 && b&0x7e != 0 {
			return 0, n + 1, wasmerrors.MalformedLEB128(base, width, "value overflows 64 bits")
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			if width < 64 && result>>uint(width) != 0 {
				return 0, n + 1, wasmerrors.MalformedLEB128(base, width, fmt.Sprintf("value %d overflows", result))
			}
			return result, n + 1, nil
		}
		shift += 7
	}
	return 0, maxBytes, wasmerrors.MalformedLEB128(base, width, fmt.Sprintf("continuation bit set after %d bytes", maxBytes))
}

// DecodeSigned reads a signed LEB128 value of at most width bits.
// The terminating byte's bit 6 is the sign and is extended into the high bits.
func DecodeSigned(r io.ByteReader, width int, base int64) (int64, int, error) {
	maxBytes := MaxBytes(width)
	var result int64
	var shift uint
	for n := 0; n < maxBytes; n++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, n, readError(err, base+int64(n))
		}
		if shift == 63 && b&0x7f != 0 && b&0x7f != 0x7f {
			return 0, n + 1, wasmerrors.MalformedLEB128(base, width, "value overflows 64 bits")
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= ^int64(0) << shift
			}
			if width < 64 {
				limit := int64(1) << uint(width-1)
				if result < -limit || result >= limit {
					return 0, n + 1, wasmerrors.MalformedLEB128(base, width, fmt.Sprintf("value %d overflows", result))
				}
			}
			return result, n + 1, nil
		}
	}
	return 0, maxBytes, wasmerrors.MalformedLEB128(base, width, fmt.Sprintf("continuation bit set after %d bytes", maxBytes))
}

// EncodeUnsigned returns the canonical unsigned LEB128 encoding of v.
func EncodeUnsigned(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// EncodeSigned returns the canonical signed LEB128 encoding of v.
func EncodeSigned(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// readError maps a failed byte read to a decoder error.
// Errors that already carry a kind pass through unchanged.
func readError(err error, offset int64) error {
	var werr *wasmerrors.Error
	if errors.As(err, &werr) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wasmerrors.UnexpectedEOF(offset, "LEB128 value")
	}
	return wasmerrors.IO(offset, err)
}
