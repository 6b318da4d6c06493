// Package wasmtest builds binary module fixtures for tests.
package wasmtest

import (
	"bytes"
	"encoding/binary"

	wasmbin "github.com/wippyai/wasmparse/wasm/internal/binary"
)

// Writer assembles module fragments byte by byte.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) *Writer {
	w.buf.WriteByte(b)
	return w
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data ...byte) *Writer {
	w.buf.Write(data)
	return w
}

// WriteU32 writes an unsigned LEB128 encoded uint32.
func (w *Writer) WriteU32(v uint32) *Writer {
	w.buf.Write(wasmbin.EncodeUnsigned(uint64(v)))
	return w
}

// WriteS32 writes a signed LEB128 encoded int32.
func (w *Writer) WriteS32(v int32) *Writer {
	w.buf.Write(wasmbin.EncodeSigned(int64(v)))
	return w
}

// WriteName writes a UTF-8 encoded name (length-prefixed).
func (w *Writer) WriteName(s string) *Writer {
	w.WriteU32(uint32(len(s)))
	w.buf.WriteString(s)
	return w
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) *Writer {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
	return w
}

// Header writes the module preamble: magic and version 1.
func (w *Writer) Header() *Writer {
	return w.WriteU32LE(0x6D736100).WriteU32LE(1)
}

// Section writes a section code, the payload length and the payload.
func (w *Writer) Section(code byte, payload []byte) *Writer {
	w.Byte(code)
	w.WriteU32(uint32(len(payload)))
	w.buf.Write(payload)
	return w
}

// CustomSection writes a code 0 section whose payload length covers the name.
func (w *Writer) CustomSection(name string, data []byte) *Writer {
	inner := NewWriter().WriteName(name).WriteBytes(data...)
	return w.Section(0, inner.Bytes())
}
