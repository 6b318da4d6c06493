package wasm

import (
	"fmt"
	"strings"
)

// Module represents a decoded WebAssembly module: the format version and
// every section in the order it appeared in the binary.
type Module struct {
	Sections []Section `json:"sections"`
	Version  uint32    `json:"version"`
}

// Section is one length-prefixed region of the module.
type Section struct {
	// Body holds the decoded contents. Its concrete type identifies the section.
	Body SectionBody `json:"-"`
	// Name is set for custom sections (code 0) only.
	Name *string `json:"name,omitempty"`
	// Offset is the stream offset of the section code byte.
	Offset int64 `json:"offset"`
	// PayloadLen is the payload length declared in the section header.
	PayloadLen uint32 `json:"payload_len"`
	// ID is the section code as it appeared in the binary. Unknown codes
	// keep their value here while Body is a *CustomSection.
	ID SectionID `json:"id"`
}

// SectionBody is implemented by the twelve section variants.
type SectionBody interface {
	// SectionID returns the code of the variant. Unknown codes decode to
	// *CustomSection and report SectionCustom.
	SectionID() SectionID
	// Len returns the number of entries, or 1 for single-value bodies.
	Len() int
}

// CustomSection carries an opaque payload. It is also the fallback for
// section codes the decoder does not recognize.
type CustomSection struct {
	Data RawBytes `json:"data"`
}

// TypeSection declares function signatures.
type TypeSection struct {
	Entries []FunctionType `json:"entries"`
}

// ImportSection declares imported items.
type ImportSection struct {
	Entries []ImportEntry `json:"entries"`
}

// FunctionSection maps each defined function to its type index.
type FunctionSection struct {
	TypeIndices []uint32 `json:"type_indices"`
}

// TableSection declares tables.
type TableSection struct {
	Entries []TableType `json:"entries"`
}

// MemorySection declares linear memories.
type MemorySection struct {
	Entries []MemoryType `json:"entries"`
}

// GlobalSection declares globals and their initializers.
type GlobalSection struct {
	Entries []GlobalEntry `json:"entries"`
}

// ExportSection declares exported items.
type ExportSection struct {
	Entries []ExportEntry `json:"entries"`
}

// StartSection names the function run at instantiation.
type StartSection struct {
	FunctionIndex uint32 `json:"function_index"`
}

// ElementSection holds table initializers.
type ElementSection struct {
	Entries []ElementSegment `json:"entries"`
}

// CodeSection holds function bodies.
type CodeSection struct {
	Bodies []FunctionBody `json:"bodies"`
}

// DataSection holds memory initializers.
type DataSection struct {
	Entries []DataSegment `json:"entries"`
}

func (*CustomSection) SectionID() SectionID   { return SectionCustom }
func (*TypeSection) SectionID() SectionID     { return SectionType }
func (*ImportSection) SectionID() SectionID   { return SectionImport }
func (*FunctionSection) SectionID() SectionID { return SectionFunction }
func (*TableSection) SectionID() SectionID    { return SectionTable }
func (*MemorySection) SectionID() SectionID   { return SectionMemory }
func (*GlobalSection) SectionID() SectionID   { return SectionGlobal }
func (*ExportSection) SectionID() SectionID   { return SectionExport }
func (*StartSection) SectionID() SectionID    { return SectionStart }
func (*ElementSection) SectionID() SectionID  { return SectionElement }
func (*CodeSection) SectionID() SectionID     { return SectionCode }
func (*DataSection) SectionID() SectionID     { return SectionData }

func (s *CustomSection) Len() int   { return len(s.Data) }
func (s *TypeSection) Len() int     { return len(s.Entries) }
func (s *ImportSection) Len() int   { return len(s.Entries) }
func (s *FunctionSection) Len() int { return len(s.TypeIndices) }
func (s *TableSection) Len() int    { return len(s.Entries) }
func (s *MemorySection) Len() int   { return len(s.Entries) }
func (s *GlobalSection) Len() int   { return len(s.Entries) }
func (s *ExportSection) Len() int   { return len(s.Entries) }
func (*StartSection) Len() int      { return 1 }
func (s *ElementSection) Len() int  { return len(s.Entries) }
func (s *CodeSection) Len() int     { return len(s.Bodies) }
func (s *DataSection) Len() int     { return len(s.Entries) }

// ValueType is a type from the value-type vocabulary shared by signatures,
// locals, globals and block types. The zero value is not a valid type.
type ValueType uint8

// Value types.
const (
	I32 ValueType = iota + 1
	I64
	F32
	F64
	Anyfunc
	Func
	EmptyBlockType
)

// ValueTypeFromCode maps a decoded signed LEB128 value to a ValueType.
func ValueTypeFromCode(code int64) (ValueType, bool) {
	switch code {
	case codeI32:
		return I32, true
	case codeI64:
		return I64, true
	case codeF32:
		return F32, true
	case codeF64:
		return F64, true
	case codeAnyfunc:
		return Anyfunc, true
	case codeFunc:
		return Func, true
	case codeEmptyType:
		return EmptyBlockType, true
	}
	return 0, false
}

// Code returns the signed LEB128 value that encodes t.
func (t ValueType) Code() int64 {
	switch t {
	case I32:
		return codeI32
	case I64:
		return codeI64
	case F32:
		return codeF32
	case F64:
		return codeF64
	case Anyfunc:
		return codeAnyfunc
	case Func:
		return codeFunc
	case EmptyBlockType:
		return codeEmptyType
	}
	return 0
}

func (t ValueType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Anyfunc:
		return "anyfunc"
	case Func:
		return "func"
	case EmptyBlockType:
		return "empty"
	}
	return fmt.Sprintf("valuetype(%d)", uint8(t))
}

// ElementType is the type of table elements. WebAssembly 1.0 has only anyfunc.
type ElementType uint8

// Element types.
const (
	ElementAnyfunc ElementType = iota + 1
)

// ElementTypeFromCode maps a decoded signed LEB128 value to an ElementType.
func ElementTypeFromCode(code int64) (ElementType, bool) {
	if code == codeAnyfunc {
		return ElementAnyfunc, true
	}
	return 0, false
}

func (t ElementType) String() string {
	if t == ElementAnyfunc {
		return "anyfunc"
	}
	return fmt.Sprintf("elementtype(%d)", uint8(t))
}

// FunctionType is a function signature. Return is nil for functions
// without a result.
type FunctionType struct {
	Return *ValueType  `json:"return,omitempty"`
	Params []ValueType `json:"params"`
	Form   ValueType   `json:"form"`
}

func (f FunctionType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	s := f.Form.String() + " (" + strings.Join(params, ", ") + ")"
	if f.Return != nil {
		s += " -> " + f.Return.String()
	}
	return s
}

// ResizableLimits bounds a table or memory. Maximum is set iff Flags is 1.
type ResizableLimits struct {
	Maximum *uint32 `json:"maximum,omitempty"`
	Initial uint32  `json:"initial"`
	Flags   uint32  `json:"flags"`
}

func (l ResizableLimits) String() string {
	if l.Maximum != nil {
		return fmt.Sprintf("min=%d max=%d", l.Initial, *l.Maximum)
	}
	return fmt.Sprintf("min=%d", l.Initial)
}

// MemoryType describes a linear memory in pages.
type MemoryType struct {
	Limits ResizableLimits `json:"limits"`
}

// TableType describes a table.
type TableType struct {
	Limits      ResizableLimits `json:"limits"`
	ElementType ElementType     `json:"element_type"`
}

// GlobalType describes a global. Mutability is the raw byte: 0 immutable, 1 mutable.
type GlobalType struct {
	ContentType ValueType `json:"content_type"`
	Mutability  byte      `json:"mutability"`
}

// Mutable reports whether the global may be written.
func (g GlobalType) Mutable() bool {
	return g.Mutability == Mutable
}

// GlobalEntry is a global definition with its initializer.
type GlobalEntry struct {
	Init ConstExpr  `json:"init"`
	Type GlobalType `json:"type"`
}

// ImportEntry is an imported item.
type ImportEntry struct {
	Desc   ImportDesc `json:"desc"`
	Module string     `json:"module"`
	Field  string     `json:"field"`
}

// ImportDesc describes what an import provides. The concrete types are
// FunctionImport, TableImport, MemoryImport and GlobalImport.
type ImportDesc interface {
	Kind() ExternalKind
}

// FunctionImport imports a function of the given type.
type FunctionImport struct {
	TypeIndex uint32 `json:"type_index"`
}

// TableImport imports a table.
type TableImport struct {
	Type TableType `json:"type"`
}

// MemoryImport imports a linear memory.
type MemoryImport struct {
	Type MemoryType `json:"type"`
}

// GlobalImport imports a global.
type GlobalImport struct {
	Type GlobalType `json:"type"`
}

func (FunctionImport) Kind() ExternalKind { return KindFunction }
func (TableImport) Kind() ExternalKind    { return KindTable }
func (MemoryImport) Kind() ExternalKind   { return KindMemory }
func (GlobalImport) Kind() ExternalKind   { return KindGlobal }

// ExportEntry is an exported item.
type ExportEntry struct {
	Field string       `json:"field"`
	Index uint32       `json:"index"`
	Kind  ExternalKind `json:"kind"`
}

// ElementSegment initializes a range of a table with function indices.
type ElementSegment struct {
	Offset     ConstExpr `json:"offset"`
	Elements   []uint32  `json:"elements"`
	TableIndex uint32    `json:"table_index"`
}

// DataSegment initializes a range of a linear memory.
type DataSegment struct {
	Offset      ConstExpr `json:"offset"`
	Data        RawBytes  `json:"data"`
	MemoryIndex uint32    `json:"memory_index"`
}

// LocalEntry declares Count locals of one type.
type LocalEntry struct {
	Count uint32    `json:"count"`
	Type  ValueType `json:"type"`
}

// FunctionBody is an entry of the code section. Code holds the bytes left in
// the body after the local declarations, terminating end opcode included.
type FunctionBody struct {
	Locals   []LocalEntry `json:"locals"`
	Code     RawBytes     `json:"code"`
	BodySize uint32       `json:"body_size"`
}

// NumLocals returns the total number of declared locals.
func (b FunctionBody) NumLocals() uint64 {
	var n uint64
	for _, l := range b.Locals {
		n += uint64(l.Count)
	}
	return n
}

// ConstExpr is an initializer expression kept as raw bytes, end opcode included.
type ConstExpr []byte

// RawBytes is an opaque byte payload.
type RawBytes []byte

// Section returns the first section with the given id, or nil.
func (m *Module) Section(id SectionID) *Section {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return &m.Sections[i]
		}
	}
	return nil
}

// CustomSections returns the named custom sections in binary order.
func (m *Module) CustomSections() []*Section {
	var out []*Section
	for i := range m.Sections {
		if m.Sections[i].Name != nil {
			out = append(out, &m.Sections[i])
		}
	}
	return out
}

// Kind returns the variant name of the body: "custom", "type", ...
func (s *Section) Kind() string {
	if s.Body == nil {
		return "unknown"
	}
	return s.Body.SectionID().String()
}

// Summary returns a one-line description of the section.
func (s *Section) Summary() string {
	var b strings.Builder
	b.WriteString(s.Kind())
	if s.Body != nil && s.ID != s.Body.SectionID() {
		fmt.Fprintf(&b, " (code %d)", byte(s.ID))
	}
	if s.Name != nil {
		fmt.Fprintf(&b, " %q", *s.Name)
	}
	fmt.Fprintf(&b, " offset=%d size=%d", s.Offset, s.PayloadLen)
	switch body := s.Body.(type) {
	case nil:
	case *CustomSection:
		fmt.Fprintf(&b, " bytes=%d", len(body.Data))
	case *StartSection:
		fmt.Fprintf(&b, " func=%d", body.FunctionIndex)
	default:
		fmt.Fprintf(&b, " entries=%d", body.Len())
	}
	return b.String()
}
