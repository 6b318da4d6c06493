package binary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	wasmerrors "github.com/wippyai/wasmparse/errors"
)

// OpEnd terminates constant expressions and function bodies.
const OpEnd byte = 0x0B

// DefaultMaxAllocation caps single allocations when the stream size is unknown.
const DefaultMaxAllocation uint64 = 1 << 30

type source interface {
	io.Reader
	io.ByteScanner
}

type budget struct {
	name string
	end  int64
}

// Reader wraps an io.Reader with position tracking, nested byte budgets and
// WASM-specific read methods. It never seeks.
type Reader struct {
	src      source
	budgets  []budget
	pos      int64
	maxAlloc uint64
}

// NewReader creates a new Reader. Sources that cannot read and unread single
// bytes are buffered.
func NewReader(r io.Reader) *Reader {
	src, ok := r.(source)
	if !ok {
		src = bufio.NewReader(r)
	}
	return &Reader{src: src, maxAlloc: DefaultMaxAllocation}
}

// SetMaxAllocation sets the largest length-prefixed read the reader will allocate for.
func (r *Reader) SetMaxAllocation(n uint64) {
	if n > 0 {
		r.maxAlloc = n
	}
}

// MaxAllocation returns the current allocation cap.
func (r *Reader) MaxAllocation() uint64 {
	return r.maxAlloc
}

// Position returns the number of bytes consumed so far.
func (r *Reader) Position() int64 {
	return r.pos
}

// PushBudget restricts subsequent reads to the next n bytes. Budgets nest;
// a budget may not extend past the one enclosing it.
func (r *Reader) PushBudget(name string, n uint64) error {
	if top := r.top(); top != nil {
		left := uint64(top.end - r.pos)
		if n > left {
			return wasmerrors.Overrun(r.pos, top.name, n, left)
		}
	}
	r.budgets = append(r.budgets, budget{name: name, end: r.pos + int64(n)})
	return nil
}

// PopBudget removes the innermost budget and returns how many of its bytes
// were left unread. The caller decides whether leftovers are an error.
func (r *Reader) PopBudget() uint64 {
	top := r.top()
	if top == nil {
		return 0
	}
	left := uint64(top.end - r.pos)
	r.budgets = r.budgets[:len(r.budgets)-1]
	return left
}

// Remaining returns the bytes left in the innermost budget, and false if no
// budget is active.
func (r *Reader) Remaining() (uint64, bool) {
	top := r.top()
	if top == nil {
		return 0, false
	}
	return uint64(top.end - r.pos), true
}

// BudgetName returns the name of the innermost budget.
func (r *Reader) BudgetName() string {
	if top := r.top(); top != nil {
		return top.name
	}
	return ""
}

func (r *Reader) top() *budget {
	if len(r.budgets) == 0 {
		return nil
	}
	return &r.budgets[len(r.budgets)-1]
}

// CapHint bounds a slice capacity derived from a count read off the stream.
// Every entry takes at least one byte, so the remaining budget is an upper bound.
func (r *Reader) CapHint(count uint64) int {
	const unbudgeted = 1024
	limit := uint64(unbudgeted)
	if left, ok := r.Remaining(); ok {
		limit = left
	}
	if count < limit {
		return int(count)
	}
	return int(limit)
}

// ReadByte reads a single byte and advances the position.
// A clean end of input is reported as io.EOF so Reader satisfies io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if top := r.top(); top != nil && r.pos >= top.end {
		return 0, wasmerrors.Overrun(r.pos, top.name, 1, 0)
	}
	b, err := r.src.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, wasmerrors.IO(r.pos, err)
	}
	r.pos++
	return b, nil
}

// AtEOF reports whether the input is exhausted. It looks past active budgets
// and consumes nothing.
func (r *Reader) AtEOF() (bool, error) {
	if _, err := r.src.ReadByte(); err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, wasmerrors.IO(r.pos, err)
	}
	if err := r.src.UnreadByte(); err != nil {
		return false, wasmerrors.IO(r.pos, err)
	}
	return false, nil
}

// ReadSectionCode reads the byte that opens a section. ok is false when the
// input ended cleanly before it.
func (r *Reader) ReadSectionCode() (code byte, ok bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return b, true, nil
}

// ReadU8 reads exactly one byte; what names the value in errors.
func (r *Reader) ReadU8(what string) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, r.eofError(err, what)
	}
	return b, nil
}

// ReadBytes reads exactly n bytes. The length is checked against the active
// budget and the allocation cap before anything is allocated.
func (r *Reader) ReadBytes(n uint64, what string) ([]byte, error) {
	if top := r.top(); top != nil {
		left := uint64(top.end - r.pos)
		if n > left {
			return nil, wasmerrors.Overrun(r.pos, top.name, n, left)
		}
	}
	if n > r.maxAlloc {
		return nil, wasmerrors.AllocationLimit(r.pos, n, r.maxAlloc)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r.src, buf)
	r.pos += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, wasmerrors.UnexpectedEOF(r.pos, what)
		}
		return nil, wasmerrors.IO(r.pos, err)
	}
	return buf, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n uint64) error {
	got, err := io.CopyN(io.Discard, r.src, int64(n))
	r.pos += got
	if err != nil {
		if errors.Is(err, io.EOF) {
			return wasmerrors.UnexpectedEOF(r.pos, "skipped bytes")
		}
		return wasmerrors.IO(r.pos, err)
	}
	return nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE(what string) (uint32, error) {
	var buf [4]byte
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return 0, r.eofError(err, what)
		}
		buf[i] = b
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadVarU32 reads an unsigned LEB128 encoded uint32 and the bytes it took.
func (r *Reader) ReadVarU32() (uint32, int, error) {
	v, n, err := DecodeUnsigned(r, 32, r.pos)
	return uint32(v), n, err
}

// ReadVarU64 reads an unsigned LEB128 encoded uint64 and the bytes it took.
func (r *Reader) ReadVarU64() (uint64, int, error) {
	return DecodeUnsigned(r, 64, r.pos)
}

// ReadVarU1 reads a one-bit unsigned LEB128 value (0 or 1).
func (r *Reader) ReadVarU1() (uint8, int, error) {
	v, n, err := DecodeUnsigned(r, 1, r.pos)
	return uint8(v), n, err
}

// ReadVarS32 reads a signed LEB128 encoded int32 and the bytes it took.
func (r *Reader) ReadVarS32() (int32, int, error) {
	v, n, err := DecodeSigned(r, 32, r.pos)
	return int32(v), n, err
}

// ReadVarS64 reads a signed LEB128 encoded int64 and the bytes it took.
func (r *Reader) ReadVarS64() (int64, int, error) {
	return DecodeSigned(r, 64, r.pos)
}

// ReadName reads a length-prefixed UTF-8 string. Invalid sequences are
// replaced with U+FFFD; string contents never fail a read.
// The returned count covers the length prefix and the string bytes.
func (r *Reader) ReadName(what string) (string, int, error) {
	length, n, err := r.ReadVarU32()
	if err != nil {
		return "", n, err
	}
	data, err := r.ReadBytes(uint64(length), what)
	if err != nil {
		return "", n, err
	}
	return DecodeUTF8Lossy(data), n + int(length), nil
}

// DecodeUTF8Lossy decodes data as UTF-8, replacing ill-formed sequences.
func DecodeUTF8Lossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(out)
}

// ReadConstExpr reads bytes up to and including the first end opcode.
// The expression is not interpreted.
func (r *Reader) ReadConstExpr() ([]byte, error) {
	var expr []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, r.eofError(err, "constant expression")
		}
		expr = append(expr, b)
		if b == OpEnd {
			return expr, nil
		}
		if uint64(len(expr)) >= r.maxAlloc {
			return nil, wasmerrors.AllocationLimit(r.pos, uint64(len(expr))+1, r.maxAlloc)
		}
	}
}

func (r *Reader) eofError(err error, what string) error {
	if errors.Is(err, io.EOF) {
		return wasmerrors.UnexpectedEOF(r.pos, what)
	}
	return err
}
