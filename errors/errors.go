package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in decoding the error occurred
type Phase string

const (
	PhaseHeader  Phase = "header"  // magic and version
	PhaseSection Phase = "section" // section header and dispatch
	PhaseDecode  Phase = "decode"  // section body decoding
	PhaseRead    Phase = "read"    // primitive reads from the byte source
)

// Kind categorizes the error
type Kind string

const (
	KindBadMagic              Kind = "bad_magic"
	KindUnsupportedVersion    Kind = "unsupported_version"
	KindUnexpectedEOF         Kind = "unexpected_eof"
	KindMalformedLEB128       Kind = "malformed_leb128"
	KindUnknownValueType      Kind = "unknown_value_type"
	KindUnknownElementType    Kind = "unknown_element_type"
	KindUnknownExternalKind   Kind = "unknown_external_kind"
	KindUnknownLimitsFlag     Kind = "unknown_limits_flag"
	KindSectionLengthMismatch Kind = "section_length_mismatch"
	KindIO                    Kind = "io_error"
	KindAllocationLimit       Kind = "allocation_limit"
)

// NoOffset marks an error that was not tied to a stream position.
const NoOffset int64 = -1

// Sentinels for errors.Is. They match any Error of the same Kind.
var (
	ErrBadMagic              = &Error{Kind: KindBadMagic, Offset: NoOffset}
	ErrUnsupportedVersion    = &Error{Kind: KindUnsupportedVersion, Offset: NoOffset}
	ErrUnexpectedEOF         = &Error{Kind: KindUnexpectedEOF, Offset: NoOffset}
	ErrMalformedLEB128       = &Error{Kind: KindMalformedLEB128, Offset: NoOffset}
	ErrUnknownValueType      = &Error{Kind: KindUnknownValueType, Offset: NoOffset}
	ErrUnknownElementType    = &Error{Kind: KindUnknownElementType, Offset: NoOffset}
	ErrUnknownExternalKind   = &Error{Kind: KindUnknownExternalKind, Offset: NoOffset}
	ErrUnknownLimitsFlag     = &Error{Kind: KindUnknownLimitsFlag, Offset: NoOffset}
	ErrSectionLengthMismatch = &Error{Kind: KindSectionLengthMismatch, Offset: NoOffset}
	ErrIO                    = &Error{Kind: KindIO, Offset: NoOffset}
	ErrAllocationLimit       = &Error{Kind: KindAllocationLimit, Offset: NoOffset}
)

// Error is the structured error type returned by the decoder
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Section string
	Detail  string
	Offset  int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.FormatInt(e.Offset, 10))
	}

	if e.Section != "" {
		b.WriteString(" in ")
		b.WriteString(e.Section)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Kinds must match; the phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Offset sets the byte offset at which the error was detected
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Section sets the name of the section being decoded
func (b *Builder) Section(name string) *Builder {
	b.err.Section = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// BadMagic creates a magic number mismatch error
func BadMagic(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindBadMagic,
		Offset: 0,
		Detail: fmt.Sprintf("magic number 0x%08x is not the expected value 0x%08x", got, want),
		Value:  got,
	}
}

// UnsupportedVersion creates a version mismatch error
func UnsupportedVersion(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindUnsupportedVersion,
		Offset: 4,
		Detail: fmt.Sprintf("unknown wasm version %d (want %d)", got, want),
		Value:  got,
	}
}

// UnexpectedEOF creates an error for a read that ran out of input
func UnexpectedEOF(offset int64, what string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnexpectedEOF,
		Offset: offset,
		Detail: "unexpected end of input reading " + what,
	}
}

// MalformedLEB128 creates a LEB128 width bound error
func MalformedLEB128(offset int64, width int, detail string) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindMalformedLEB128,
		Offset: offset,
		Detail: fmt.Sprintf("%d-bit value: %s", width, detail),
	}
}

// UnknownDiscriminator creates an error for a discriminator outside its domain.
// kind must be one of the KindUnknown* kinds.
func UnknownDiscriminator(kind Kind, offset int64, value any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   kind,
		Offset: offset,
		Detail: fmt.Sprintf("unknown %s %v", strings.TrimPrefix(strings.ReplaceAll(string(kind), "_", " "), "unknown "), value),
		Value:  value,
	}
}

// LengthMismatch creates a section or body budget error
func LengthMismatch(offset int64, section string, declared, consumed uint64) *Error {
	return &Error{
		Phase:   PhaseSection,
		Kind:    KindSectionLengthMismatch,
		Offset:  offset,
		Section: section,
		Detail:  fmt.Sprintf("declared %d bytes but consumed %d", declared, consumed),
	}
}

// Overrun creates an error for a read that would cross the current byte budget
func Overrun(offset int64, section string, want, left uint64) *Error {
	return &Error{
		Phase:   PhaseSection,
		Kind:    KindSectionLengthMismatch,
		Offset:  offset,
		Section: section,
		Detail:  fmt.Sprintf("read of %d bytes overruns the %d bytes left", want, left),
	}
}

// AllocationLimit creates an error for a length prefix above the allocation cap
func AllocationLimit(offset int64, size, limit uint64) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindAllocationLimit,
		Offset: offset,
		Detail: fmt.Sprintf("refusing to allocate %d bytes (limit %d)", size, limit),
		Value:  size,
	}
}

// IO wraps a transport failure from the byte source
func IO(offset int64, cause error) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindIO,
		Offset: offset,
		Cause:  cause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// OffsetOf returns the byte offset recorded by the first *Error in err's chain.
func OffsetOf(err error) (int64, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Offset, e.Offset >= 0
	}
	return 0, false
}
