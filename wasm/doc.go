// Package wasm decodes WebAssembly 1.0 binary modules.
//
// The decoder reads the module header, then walks the section list in
// binary order. Every section keeps its declared payload length and its
// decoded body; custom sections also keep their name. Section codes the
// decoder does not recognize are kept as custom bodies with the raw payload.
// Instructions are not decoded: constant expressions and function code stay
// as raw bytes.
//
// # Parsing
//
//	f, _ := os.Open("module.wasm")
//	defer f.Close()
//	module, err := wasm.ParseModule(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse with options:
//
//	module, err := wasm.ParseModuleWithOptions(r, &wasm.Options{
//	    MaxAllocation:   16 << 20,
//	    SkipLengthCheck: true,
//	    Logger:          zap.NewExample(),
//	})
//
// The source is consumed strictly in order and never seeked. Parsers share no
// state, so separate sources may be parsed concurrently.
//
// # Module Structure
//
// A parsed module is a list of sections. The concrete type of Section.Body
// identifies the variant:
//
//	for _, sec := range module.Sections {
//	    switch body := sec.Body.(type) {
//	    case *wasm.TypeSection:
//	        // body.Entries []FunctionType
//	    case *wasm.ImportSection:
//	        // body.Entries []ImportEntry, each with a FunctionImport,
//	        // TableImport, MemoryImport or GlobalImport descriptor
//	    case *wasm.CodeSection:
//	        // body.Bodies []FunctionBody
//	    case *wasm.CustomSection:
//	        // sec.Name is nil for unrecognized section codes
//	    }
//	}
//
// # Errors
//
// Every malformed input is reported as an error whose chain contains an
// *errors.Error from github.com/wippyai/wasmparse/errors carrying the kind
// and the byte offset:
//
//	if errors.Is(err, wasmerrors.ErrBadMagic) { ... }
//	off, ok := wasmerrors.OffsetOf(err)
//
// # Output
//
// Module marshals to JSON with tagged variants, and Dump writes an indented
// text tree.
//
// # LEB128 Encoding
//
// The package exposes the bounded LEB128 codec used throughout:
//
//	v, n, err := wasm.DecodeUnsigned(r, 32)
//	s, n, err := wasm.DecodeSigned(r, 64)
//	enc := wasm.EncodeLEB128s(-624485)
package wasm
