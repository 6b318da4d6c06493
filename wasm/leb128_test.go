package wasm_test

import (
	"bytes"
	"errors"
	"math"
	"math/bits"
	"testing"
	"testing/quick"

	wasmerrors "github.com/wippyai/wasmparse/errors"
	"github.com/wippyai/wasmparse/wasm"
)

func TestLEB128Unsigned(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0x80, 0x02}, 256},
		{[]byte{0xff, 0x7f}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := wasm.EncodeLEB128u(tt.value); !bytes.Equal(got, tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, got, tt.encoded)
			}

			got, n, err := wasm.DecodeUnsigned(bytes.NewReader(tt.encoded), 32)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != uint64(tt.value) {
				t.Errorf("decode: got %d, want %d", got, tt.value)
			}
			if n != len(tt.encoded) {
				t.Errorf("decode: consumed %d, want %d", n, len(tt.encoded))
			}
		})
	}
}

func TestLEB128Signed(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0xff, 0x00}, 127},
		{[]byte{0x80, 0x7f}, -128},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x7e}, -129},
		{[]byte{0x9b, 0xf1, 0x59}, -624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x07}, math.MaxInt32},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := wasm.EncodeLEB128s(tt.value); !bytes.Equal(got, tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, got, tt.encoded)
			}

			got, n, err := wasm.DecodeSigned(bytes.NewReader(tt.encoded), 32)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != int64(tt.value) {
				t.Errorf("decode: got %d, want %d", got, tt.value)
			}
			if n != len(tt.encoded) {
				t.Errorf("decode: consumed %d, want %d", n, len(tt.encoded))
			}
		})
	}
}

func TestLEB128Scenarios(t *testing.T) {
	v, n, err := wasm.DecodeUnsigned(bytes.NewReader([]byte{0xE5, 0x8E, 0x26}), 32)
	if err != nil || v != 624485 || n != 3 {
		t.Errorf("unsigned E5 8E 26 = (%d, %d, %v), want (624485, 3, nil)", v, n, err)
	}

	s, n, err := wasm.DecodeSigned(bytes.NewReader([]byte{0x9B, 0xF1, 0x59}), 32)
	if err != nil || s != -624485 || n != 3 {
		t.Errorf("signed 9B F1 59 = (%d, %d, %v), want (-624485, 3, nil)", s, n, err)
	}
}

func TestLEB128u64(t *testing.T) {
	tests := []uint64{0, 1, 127, 128, 255, 256, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	for _, v := range tests {
		got, err := wasm.ReadLEB128u64(bytes.NewReader(wasm.EncodeLEB128u64(v)))
		if err != nil {
			t.Fatalf("ReadLEB128u64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadLEB128u64: got %d, want %d", got, v)
		}
	}
}

func TestLEB128s64(t *testing.T) {
	tests := []int64{0, 1, -1, 63, 64, -64, -65, 127, -128, math.MaxInt64, math.MinInt64}
	for _, v := range tests {
		got, err := wasm.ReadLEB128s64(bytes.NewReader(wasm.EncodeLEB128s64(v)))
		if err != nil {
			t.Fatalf("ReadLEB128s64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadLEB128s64: got %d, want %d", got, v)
		}
	}
}

func TestLEB128Convenience32(t *testing.T) {
	u, err := wasm.ReadLEB128u(bytes.NewReader([]byte{0xe5, 0x8e, 0x26}))
	if err != nil || u != 624485 {
		t.Errorf("ReadLEB128u = %d, %v", u, err)
	}
	s, err := wasm.ReadLEB128s(bytes.NewReader([]byte{0x7f}))
	if err != nil || s != -1 {
		t.Errorf("ReadLEB128s = %d, %v", s, err)
	}
}

func TestLEB128Overflow(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		width  int
		signed bool
	}{
		{"u32 continuation past 5 bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 32, false},
		{"u32 payload past 32 bits", []byte{0xff, 0xff, 0xff, 0xff, 0x1f}, 32, false},
		{"u64 continuation past 10 bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 64, false},
		{"u64 payload past 64 bits", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}, 64, false},
		{"s32 continuation past 5 bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 32, true},
		{"s32 payload past 32 bits", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 32, true},
		{"s64 continuation past 10 bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 64, true},
		{"u1 value 2", []byte{0x02}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			var n int
			if tt.signed {
				_, n, err = wasm.DecodeSigned(bytes.NewReader(tt.data), tt.width)
			} else {
				_, n, err = wasm.DecodeUnsigned(bytes.NewReader(tt.data), tt.width)
			}
			if !errors.Is(err, wasmerrors.ErrMalformedLEB128) {
				t.Fatalf("expected MalformedLEB128, got %v", err)
			}
			if limit := (tt.width + 6) / 7; n > limit {
				t.Errorf("consumed %d bytes, bound is %d", n, limit)
			}
		})
	}
}

func TestLEB128FinalByteFitsWidth(t *testing.T) {
	// Five byte encodings whose high bits are a zero or sign extension fit 32 bits.
	u, n, err := wasm.DecodeUnsigned(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}), 32)
	if err != nil || u != math.MaxUint32 || n != 5 {
		t.Errorf("unsigned FF FF FF FF 0F = (%d, %d, %v)", u, n, err)
	}
	s, n, err := wasm.DecodeSigned(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x7f}), 32)
	if err != nil || s != -1 || n != 5 {
		t.Errorf("signed FF FF FF FF 7F = (%d, %d, %v)", s, n, err)
	}
	s, _, err = wasm.DecodeSigned(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x78}), 32)
	if err != nil || s != math.MinInt32 {
		t.Errorf("signed 80 80 80 80 78 = (%d, %v), want MinInt32", s, err)
	}
}

func TestLEB128Truncated(t *testing.T) {
	_, n, err := wasm.DecodeUnsigned(bytes.NewReader([]byte{0x80, 0x80}), 32)
	if !errors.Is(err, wasmerrors.ErrUnexpectedEOF) {
		t.Fatalf("expected UnexpectedEOF, got %v", err)
	}
	if n != 2 {
		t.Errorf("consumed %d, want 2", n)
	}

	_, _, err = wasm.DecodeSigned(bytes.NewReader(nil), 64)
	if !errors.Is(err, wasmerrors.ErrUnexpectedEOF) {
		t.Errorf("empty input: expected UnexpectedEOF, got %v", err)
	}
}

func TestLEB128UnsupportedWidth(t *testing.T) {
	if _, _, err := wasm.DecodeUnsigned(bytes.NewReader([]byte{0}), 0); err == nil {
		t.Error("width 0 should fail")
	}
	if _, _, err := wasm.DecodeSigned(bytes.NewReader([]byte{0}), 65); err == nil {
		t.Error("width 65 should fail")
	}
}

func canonicalUnsignedLen(v uint64) int {
	if v == 0 {
		return 1
	}
	return (bits.Len64(v) + 6) / 7
}

func canonicalSignedLen(v int64) int {
	// Magnitude bits plus one sign bit.
	m := v
	if m < 0 {
		m = ^m
	}
	return (bits.Len64(uint64(m)) + 1 + 6) / 7
}

func TestLEB128RoundTripProperty(t *testing.T) {
	unsigned := func(v uint64) bool {
		enc := wasm.EncodeLEB128u64(v)
		got, n, err := wasm.DecodeUnsigned(bytes.NewReader(enc), 64)
		return err == nil && got == v && n == len(enc) && n == canonicalUnsignedLen(v)
	}
	if err := quick.Check(unsigned, nil); err != nil {
		t.Error(err)
	}

	unsigned32 := func(v uint32) bool {
		enc := wasm.EncodeLEB128u(v)
		got, n, err := wasm.DecodeUnsigned(bytes.NewReader(enc), 32)
		return err == nil && got == uint64(v) && n == len(enc) && n <= 5
	}
	if err := quick.Check(unsigned32, nil); err != nil {
		t.Error(err)
	}

	signed := func(v int64) bool {
		enc := wasm.EncodeLEB128s64(v)
		got, n, err := wasm.DecodeSigned(bytes.NewReader(enc), 64)
		return err == nil && got == v && n == len(enc) && n == canonicalSignedLen(v)
	}
	if err := quick.Check(signed, nil); err != nil {
		t.Error(err)
	}

	signed32 := func(v int32) bool {
		enc := wasm.EncodeLEB128s(v)
		got, n, err := wasm.DecodeSigned(bytes.NewReader(enc), 32)
		return err == nil && got == int64(v) && n == len(enc) && n <= 5
	}
	if err := quick.Check(signed32, nil); err != nil {
		t.Error(err)
	}
}

func TestLEB128SignExtensionProperty(t *testing.T) {
	negative := func(v int64) bool {
		if v >= 0 {
			v = -v - 1
		}
		enc := wasm.EncodeLEB128s64(v)
		last := enc[len(enc)-1]
		got, _, err := wasm.DecodeSigned(bytes.NewReader(enc), 64)
		return err == nil && got == v && last&0x40 != 0
	}
	if err := quick.Check(negative, nil); err != nil {
		t.Error(err)
	}

	// Every boundary around each 7-bit group.
	for shift := 0; shift < 63; shift++ {
		for _, v := range []int64{-(int64(1) << shift), -(int64(1) << shift) - 1, (int64(1) << shift) - 1} {
			got, _, err := wasm.DecodeSigned(bytes.NewReader(wasm.EncodeLEB128s64(v)), 64)
			if err != nil || got != v {
				t.Errorf("round-trip %d: got %d, %v", v, got, err)
			}
		}
	}
}

func TestLEB128LengthBoundProperty(t *testing.T) {
	for _, width := range []int{1, 7, 8, 32, 33, 64} {
		limit := (width + 6) / 7
		data := bytes.Repeat([]byte{0x80}, limit+3)
		_, n, err := wasm.DecodeUnsigned(bytes.NewReader(data), width)
		if !errors.Is(err, wasmerrors.ErrMalformedLEB128) {
			t.Errorf("width %d: expected MalformedLEB128, got %v", width, err)
		}
		if n != limit {
			t.Errorf("width %d: consumed %d, want %d", width, n, limit)
		}
		_, n, err = wasm.DecodeSigned(bytes.NewReader(data), width)
		if !errors.Is(err, wasmerrors.ErrMalformedLEB128) || n != limit {
			t.Errorf("signed width %d: got n=%d err=%v", width, n, err)
		}
	}
}
