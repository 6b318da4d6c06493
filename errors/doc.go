// Package errors provides structured error types for the wasmparse decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset at which the problem was detected, the section
// being decoded, a human-readable detail and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindUnknownValueType).
//		Offset(42).
//		Section("type").
//		Detail("value type %d", -5).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnexpectedEOF(offset, "section code")
//	err := errors.LengthMismatch(offset, "code", 12, 10)
//
// Every Kind has a sentinel so callers can test with the standard library:
//
//	if errors.Is(err, wasmerrors.ErrBadMagic) { ... }
package errors
