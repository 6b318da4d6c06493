// Package wasmparse decodes WebAssembly 1.0 binary modules into a structured,
// inspectable tree.
//
// The decoder covers the LEB128 integer codec, the value-type vocabulary,
// the section dispatcher and one decoder per section. It does not validate
// modules, execute them, or decode instruction streams.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmparse/           Root package with the Parse entry points
//	├── wasm/            Data model, LEB128 codec, section decoders, JSON and text output
//	│   └── internal/binary/  Position-tracking reader with byte budgets
//	├── errors/          Structured error types with kinds and byte offsets
//	└── cmd/wasmparse/   Command line driver (dump, json, sections, browse)
//
// # Quick Start
//
// Parse a module from disk:
//
//	mod, err := wasmparse.ParseFile("module.wasm", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sec := range mod.Sections {
//	    fmt.Println(sec.Summary())
//	}
//
// Parse from any reader:
//
//	mod, err := wasmparse.Parse(conn, &wasm.Options{MaxAllocation: 64 << 20})
//
// # Errors
//
// Errors carry a kind and the byte offset at which they were detected:
//
//	if errors.Is(err, wasmerrors.ErrUnexpectedEOF) {
//	    off, _ := wasmerrors.OffsetOf(err)
//	    log.Printf("truncated module at byte %d", off)
//	}
//
// # Thread Safety
//
// A parse owns its source and shares no state with other parses, so
// independent sources may be parsed from separate goroutines. The returned
// Module is never mutated by the decoder.
package wasmparse
