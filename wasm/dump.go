package wasm

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// dumpPreviewBytes limits how many bytes of an opaque payload are printed.
const dumpPreviewBytes = 32

// DumpStyle decorates the parts of a text dump. Nil functions leave the
// text unchanged, so the zero value produces plain output.
type DumpStyle struct {
	Header  func(string) string // module line
	Section func(string) string // section headings
	Key     func(string) string // field names
	Value   func(string) string // scalar values
	Bytes   func(string) string // hex payloads
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

type dumper struct {
	w     *bufio.Writer
	style DumpStyle
}

func (d *dumper) line(indent int, format string, args ...any) {
	d.w.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(d.w, format, args...)
	d.w.WriteByte('\n')
}

func (d *dumper) field(indent int, key string, value any) {
	d.line(indent, "%s: %s", apply(d.style.Key, key), apply(d.style.Value, fmt.Sprint(value)))
}

func (d *dumper) bytes(indent int, key string, data []byte) {
	preview := data
	suffix := ""
	if len(preview) > dumpPreviewBytes {
		preview = preview[:dumpPreviewBytes]
		suffix = "..."
	}
	d.line(indent, "%s: %s %s%s", apply(d.style.Key, key),
		apply(d.style.Value, fmt.Sprintf("%d bytes", len(data))),
		apply(d.style.Bytes, hex.EncodeToString(preview)), suffix)
}

// Dump writes an indented text tree of m to w.
func Dump(w io.Writer, m *Module, style DumpStyle) error {
	d := &dumper{w: bufio.NewWriter(w), style: style}
	d.line(0, "%s", apply(style.Header, fmt.Sprintf("module version=%d sections=%d", m.Version, len(m.Sections))))
	for i := range m.Sections {
		if err := DumpSection(d.w, i, &m.Sections[i], style); err != nil {
			return err
		}
	}
	return d.w.Flush()
}

// DumpSection writes the tree of one section. index is its position in the module.
func DumpSection(w io.Writer, index int, s *Section, style DumpStyle) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	d := &dumper{w: bw, style: style}
	d.line(0, "%s", apply(style.Section, fmt.Sprintf("[%d] %s", index, s.Summary())))
	d.body(1, s.Body)
	if ok {
		return nil
	}
	return bw.Flush()
}

func (d *dumper) body(indent int, body SectionBody) {
	switch b := body.(type) {
	case *CustomSection:
		d.bytes(indent, "data", b.Data)
	case *TypeSection:
		for i, ft := range b.Entries {
			d.field(indent, fmt.Sprintf("type[%d]", i), ft)
		}
	case *ImportSection:
		for i, imp := range b.Entries {
			d.line(indent, "%s: %s", apply(d.style.Key, fmt.Sprintf("import[%d]", i)),
				apply(d.style.Value, fmt.Sprintf("%q.%q", imp.Module, imp.Field)))
			d.importDesc(indent+1, imp.Desc)
		}
	case *FunctionSection:
		for i, idx := range b.TypeIndices {
			d.field(indent, fmt.Sprintf("func[%d]", i), fmt.Sprintf("type %d", idx))
		}
	case *TableSection:
		for i, t := range b.Entries {
			d.field(indent, fmt.Sprintf("table[%d]", i), fmt.Sprintf("%s %s", t.ElementType, t.Limits))
		}
	case *MemorySection:
		for i, mem := range b.Entries {
			d.field(indent, fmt.Sprintf("memory[%d]", i), mem.Limits)
		}
	case *GlobalSection:
		for i, g := range b.Entries {
			d.field(indent, fmt.Sprintf("global[%d]", i), globalTypeString(g.Type))
			d.bytes(indent+1, "init", g.Init)
		}
	case *ExportSection:
		for i, e := range b.Entries {
			d.field(indent, fmt.Sprintf("export[%d]", i), fmt.Sprintf("%q %s %d", e.Field, e.Kind, e.Index))
		}
	case *StartSection:
		d.field(indent, "function", b.FunctionIndex)
	case *ElementSection:
		for i, seg := range b.Entries {
			d.field(indent, fmt.Sprintf("segment[%d]", i), fmt.Sprintf("table %d", seg.TableIndex))
			d.bytes(indent+1, "offset", seg.Offset)
			d.field(indent+1, "elements", seg.Elements)
		}
	case *CodeSection:
		for i, fb := range b.Bodies {
			d.field(indent, fmt.Sprintf("body[%d]", i), fmt.Sprintf("size %d", fb.BodySize))
			for _, l := range fb.Locals {
				d.field(indent+1, "locals", fmt.Sprintf("%d x %s", l.Count, l.Type))
			}
			d.bytes(indent+1, "code", fb.Code)
		}
	case *DataSection:
		for i, seg := range b.Entries {
			d.field(indent, fmt.Sprintf("segment[%d]", i), fmt.Sprintf("memory %d", seg.MemoryIndex))
			d.bytes(indent+1, "offset", seg.Offset)
			d.bytes(indent+1, "data", seg.Data)
		}
	}
}

func (d *dumper) importDesc(indent int, desc ImportDesc) {
	switch v := desc.(type) {
	case FunctionImport:
		d.field(indent, "function", fmt.Sprintf("type %d", v.TypeIndex))
	case TableImport:
		d.field(indent, "table", fmt.Sprintf("%s %s", v.Type.ElementType, v.Type.Limits))
	case MemoryImport:
		d.field(indent, "memory", v.Type.Limits)
	case GlobalImport:
		d.field(indent, "global", globalTypeString(v.Type))
	}
}

func globalTypeString(g GlobalType) string {
	if g.Mutable() {
		return "mut " + g.ContentType.String()
	}
	return g.ContentType.String()
}
