package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the only binary format version the decoder accepts.
	Version uint32 = 0x01
)

// SectionID is the one-byte code that opens every section.
type SectionID byte

// Section IDs of the WebAssembly 1.0 binary format.
// Sections may appear in any order; order validation is left to validators.
const (
	SectionCustom   SectionID = 0  // Custom section (name + opaque payload)
	SectionType     SectionID = 1  // Type section (function signatures)
	SectionImport   SectionID = 2  // Import section
	SectionFunction SectionID = 3  // Function section (type indices)
	SectionTable    SectionID = 4  // Table section
	SectionMemory   SectionID = 5  // Memory section
	SectionGlobal   SectionID = 6  // Global section
	SectionExport   SectionID = 7  // Export section
	SectionStart    SectionID = 8  // Start section
	SectionElement  SectionID = 9  // Element section
	SectionCode     SectionID = 10 // Code section (function bodies)
	SectionData     SectionID = 11 // Data section
)

// Known reports whether the code maps to a section body decoder.
func (id SectionID) Known() bool {
	return id <= SectionData
}

func (id SectionID) String() string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	default:
		return "unknown"
	}
}

// ExternalKind identifies the type of an imported or exported item.
type ExternalKind byte

// Import/Export descriptor kinds.
const (
	KindFunction ExternalKind = 0 // Function import/export
	KindTable    ExternalKind = 1 // Table import/export
	KindMemory   ExternalKind = 2 // Memory import/export
	KindGlobal   ExternalKind = 3 // Global import/export
)

func (k ExternalKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Value type encodings. The binary format stores them as signed LEB128
// values; these are the decoded numbers.
const (
	codeI32       int64 = -0x01
	codeI64       int64 = -0x02
	codeF32       int64 = -0x03
	codeF64       int64 = -0x04
	codeAnyfunc   int64 = -0x10
	codeFunc      int64 = -0x20
	codeEmptyType int64 = -0x40
)

// Limits flags.
const (
	LimitsNoMaximum  uint32 = 0
	LimitsHasMaximum uint32 = 1
)

// Global mutability bytes.
const (
	Immutable byte = 0
	Mutable   byte = 1
)
