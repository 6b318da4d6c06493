package wasm

import (
	"fmt"

	wasmerrors "github.com/wippyai/wasmparse/errors"
	"github.com/wippyai/wasmparse/wasm/internal/binary"
)

func decodeCustomSection(r *binary.Reader) (*CustomSection, error) {
	left, _ := r.Remaining()
	data, err := r.ReadBytes(left, "custom section payload")
	if err != nil {
		return nil, err
	}
	return &CustomSection{Data: data}, nil
}

func decodeTypeSection(r *binary.Reader) (*TypeSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]FunctionType, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		ft, err := readFunctionType(r)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		entries = append(entries, ft)
	}
	return &TypeSection{Entries: entries}, nil
}

func readFunctionType(r *binary.Reader) (FunctionType, error) {
	form, err := readValueType(r)
	if err != nil {
		return FunctionType{}, fmt.Errorf("form: %w", err)
	}
	paramCount, _, err := r.ReadVarU32()
	if err != nil {
		return FunctionType{}, fmt.Errorf("param count: %w", err)
	}
	params := make([]ValueType, 0, r.CapHint(uint64(paramCount)))
	for j := uint32(0); j < paramCount; j++ {
		vt, err := readValueType(r)
		if err != nil {
			return FunctionType{}, fmt.Errorf("param %d: %w", j, err)
		}
		params = append(params, vt)
	}
	returnCount, _, err := r.ReadVarU1()
	if err != nil {
		return FunctionType{}, fmt.Errorf("return count: %w", err)
	}
	ft := FunctionType{Form: form, Params: params}
	if returnCount == 1 {
		ret, err := readValueType(r)
		if err != nil {
			return FunctionType{}, fmt.Errorf("return type: %w", err)
		}
		ft.Return = &ret
	}
	return ft, nil
}

func decodeImportSection(r *binary.Reader) (*ImportSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]ImportEntry, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		imp, err := readImportEntry(r)
		if err != nil {
			return nil, fmt.Errorf("import %d: %w", i, err)
		}
		entries = append(entries, imp)
	}
	return &ImportSection{Entries: entries}, nil
}

func readImportEntry(r *binary.Reader) (ImportEntry, error) {
	module, _, err := r.ReadName("import module name")
	if err != nil {
		return ImportEntry{}, fmt.Errorf("module name: %w", err)
	}
	field, _, err := r.ReadName("import field name")
	if err != nil {
		return ImportEntry{}, fmt.Errorf("field name: %w", err)
	}
	kindOffset := r.Position()
	kind, err := r.ReadU8("import kind")
	if err != nil {
		return ImportEntry{}, err
	}

	imp := ImportEntry{Module: module, Field: field}
	switch ExternalKind(kind) {
	case KindFunction:
		idx, _, err := r.ReadVarU32()
		if err != nil {
			return ImportEntry{}, fmt.Errorf("type index: %w", err)
		}
		imp.Desc = FunctionImport{TypeIndex: idx}
	case KindTable:
		tt, err := readTableType(r)
		if err != nil {
			return ImportEntry{}, err
		}
		imp.Desc = TableImport{Type: tt}
	case KindMemory:
		limits, err := readLimits(r)
		if err != nil {
			return ImportEntry{}, err
		}
		imp.Desc = MemoryImport{Type: MemoryType{Limits: limits}}
	case KindGlobal:
		gt, err := readGlobalType(r)
		if err != nil {
			return ImportEntry{}, err
		}
		imp.Desc = GlobalImport{Type: gt}
	default:
		return ImportEntry{}, wasmerrors.UnknownDiscriminator(wasmerrors.KindUnknownExternalKind, kindOffset, kind)
	}
	return imp, nil
}

func decodeFunctionSection(r *binary.Reader) (*FunctionSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	indices := make([]uint32, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		idx, _, err := r.ReadVarU32()
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		indices = append(indices, idx)
	}
	return &FunctionSection{TypeIndices: indices}, nil
}

func decodeTableSection(r *binary.Reader) (*TableSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]TableType, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		tt, err := readTableType(r)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		entries = append(entries, tt)
	}
	return &TableSection{Entries: entries}, nil
}

func decodeMemorySection(r *binary.Reader) (*MemorySection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]MemoryType, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		limits, err := readLimits(r)
		if err != nil {
			return nil, fmt.Errorf("memory %d: %w", i, err)
		}
		entries = append(entries, MemoryType{Limits: limits})
	}
	return &MemorySection{Entries: entries}, nil
}

func decodeGlobalSection(r *binary.Reader) (*GlobalSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]GlobalEntry, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		gt, err := readGlobalType(r)
		if err != nil {
			return nil, fmt.Errorf("global %d: %w", i, err)
		}
		init, err := r.ReadConstExpr()
		if err != nil {
			return nil, fmt.Errorf("global %d: init: %w", i, err)
		}
		entries = append(entries, GlobalEntry{Type: gt, Init: init})
	}
	return &GlobalSection{Entries: entries}, nil
}

func decodeExportSection(r *binary.Reader) (*ExportSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]ExportEntry, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		field, _, err := r.ReadName("export field name")
		if err != nil {
			return nil, fmt.Errorf("export %d: name: %w", i, err)
		}
		kindOffset := r.Position()
		kind, err := r.ReadU8("export kind")
		if err != nil {
			return nil, fmt.Errorf("export %d: %w", i, err)
		}
		if kind > byte(KindGlobal) {
			return nil, fmt.Errorf("export %d: %w", i,
				wasmerrors.UnknownDiscriminator(wasmerrors.KindUnknownExternalKind, kindOffset, kind))
		}
		idx, _, err := r.ReadVarU32()
		if err != nil {
			return nil, fmt.Errorf("export %d: index: %w", i, err)
		}
		entries = append(entries, ExportEntry{Field: field, Kind: ExternalKind(kind), Index: idx})
	}
	return &ExportSection{Entries: entries}, nil
}

func decodeStartSection(r *binary.Reader) (*StartSection, error) {
	idx, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("function index: %w", err)
	}
	return &StartSection{FunctionIndex: idx}, nil
}

func decodeElementSection(r *binary.Reader) (*ElementSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]ElementSegment, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		seg, err := readElementSegment(r)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		entries = append(entries, seg)
	}
	return &ElementSection{Entries: entries}, nil
}

func readElementSegment(r *binary.Reader) (ElementSegment, error) {
	table, _, err := r.ReadVarU32()
	if err != nil {
		return ElementSegment{}, fmt.Errorf("table index: %w", err)
	}
	offset, err := r.ReadConstExpr()
	if err != nil {
		return ElementSegment{}, fmt.Errorf("offset: %w", err)
	}
	numElem, _, err := r.ReadVarU32()
	if err != nil {
		return ElementSegment{}, fmt.Errorf("element count: %w", err)
	}
	elems := make([]uint32, 0, r.CapHint(uint64(numElem)))
	for j := uint32(0); j < numElem; j++ {
		idx, _, err := r.ReadVarU32()
		if err != nil {
			return ElementSegment{}, fmt.Errorf("element %d: %w", j, err)
		}
		elems = append(elems, idx)
	}
	return ElementSegment{TableIndex: table, Offset: offset, Elements: elems}, nil
}

func decodeCodeSection(r *binary.Reader) (*CodeSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	bodies := make([]FunctionBody, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		body, err := readFunctionBody(r, i)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, body)
	}
	return &CodeSection{Bodies: bodies}, nil
}

// readFunctionBody decodes one body inside its own byte budget. Whatever the
// local declarations leave of body_size is the code.
func readFunctionBody(r *binary.Reader, index uint32) (FunctionBody, error) {
	size, _, err := r.ReadVarU32()
	if err != nil {
		return FunctionBody{}, fmt.Errorf("body size: %w", err)
	}
	if err := r.PushBudget(fmt.Sprintf("function body %d", index), uint64(size)); err != nil {
		return FunctionBody{}, err
	}

	localCount, _, err := r.ReadVarU32()
	if err != nil {
		return FunctionBody{}, fmt.Errorf("local count: %w", err)
	}
	locals := make([]LocalEntry, 0, r.CapHint(uint64(localCount)))
	for j := uint32(0); j < localCount; j++ {
		n, _, err := r.ReadVarU32()
		if err != nil {
			return FunctionBody{}, fmt.Errorf("local %d: count: %w", j, err)
		}
		vt, err := readValueType(r)
		if err != nil {
			return FunctionBody{}, fmt.Errorf("local %d: %w", j, err)
		}
		locals = append(locals, LocalEntry{Count: n, Type: vt})
	}

	left, _ := r.Remaining()
	code, err := r.ReadBytes(left, "function body code")
	if err != nil {
		return FunctionBody{}, err
	}
	r.PopBudget()
	return FunctionBody{BodySize: size, Locals: locals, Code: code}, nil
}

func decodeDataSection(r *binary.Reader) (*DataSection, error) {
	count, _, err := r.ReadVarU32()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	entries := make([]DataSegment, 0, r.CapHint(uint64(count)))
	for i := uint32(0); i < count; i++ {
		seg, err := readDataSegment(r)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		entries = append(entries, seg)
	}
	return &DataSection{Entries: entries}, nil
}

func readDataSegment(r *binary.Reader) (DataSegment, error) {
	mem, _, err := r.ReadVarU32()
	if err != nil {
		return DataSegment{}, fmt.Errorf("memory index: %w", err)
	}
	offset, err := r.ReadConstExpr()
	if err != nil {
		return DataSegment{}, fmt.Errorf("offset: %w", err)
	}
	size, _, err := r.ReadVarU32()
	if err != nil {
		return DataSegment{}, fmt.Errorf("size: %w", err)
	}
	data, err := r.ReadBytes(uint64(size), "data segment")
	if err != nil {
		return DataSegment{}, err
	}
	return DataSegment{MemoryIndex: mem, Offset: offset, Data: data}, nil
}

func readValueType(r *binary.Reader) (ValueType, error) {
	off := r.Position()
	code, _, err := r.ReadVarS32()
	if err != nil {
		return 0, err
	}
	vt, ok := ValueTypeFromCode(int64(code))
	if !ok {
		return 0, wasmerrors.UnknownDiscriminator(wasmerrors.KindUnknownValueType, off, code)
	}
	return vt, nil
}

func readElementType(r *binary.Reader) (ElementType, error) {
	off := r.Position()
	code, _, err := r.ReadVarS32()
	if err != nil {
		return 0, err
	}
	et, ok := ElementTypeFromCode(int64(code))
	if !ok {
		return 0, wasmerrors.UnknownDiscriminator(wasmerrors.KindUnknownElementType, off, code)
	}
	return et, nil
}

func readLimits(r *binary.Reader) (ResizableLimits, error) {
	off := r.Position()
	flags, _, err := r.ReadVarU32()
	if err != nil {
		return ResizableLimits{}, fmt.Errorf("limits flags: %w", err)
	}
	if flags != LimitsNoMaximum && flags != LimitsHasMaximum {
		return ResizableLimits{}, wasmerrors.UnknownDiscriminator(wasmerrors.KindUnknownLimitsFlag, off, flags)
	}
	initial, _, err := r.ReadVarU32()
	if err != nil {
		return ResizableLimits{}, fmt.Errorf("limits initial: %w", err)
	}
	limits := ResizableLimits{Flags: flags, Initial: initial}
	if flags == LimitsHasMaximum {
		maximum, _, err := r.ReadVarU32()
		if err != nil {
			return ResizableLimits{}, fmt.Errorf("limits maximum: %w", err)
		}
		limits.Maximum = &maximum
	}
	return limits, nil
}

func readTableType(r *binary.Reader) (TableType, error) {
	et, err := readElementType(r)
	if err != nil {
		return TableType{}, fmt.Errorf("element type: %w", err)
	}
	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElementType: et, Limits: limits}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	vt, err := readValueType(r)
	if err != nil {
		return GlobalType{}, fmt.Errorf("content type: %w", err)
	}
	mut, err := r.ReadU8("global mutability")
	if err != nil {
		return GlobalType{}, err
	}
	return GlobalType{ContentType: vt, Mutability: mut}, nil
}
