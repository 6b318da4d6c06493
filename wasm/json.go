package wasm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// JSON rendering of the module tree. Sum types become objects tagged with a
// "kind" member, vocabulary values become their text names and raw byte
// payloads become lowercase hex strings.

func (t ValueType) MarshalText() ([]byte, error) {
	if _, ok := ValueTypeFromCode(t.Code()); !ok {
		return nil, fmt.Errorf("invalid value type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t ElementType) MarshalText() ([]byte, error) {
	if t != ElementAnyfunc {
		return nil, fmt.Errorf("invalid element type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (k ExternalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (b RawBytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

func (e ConstExpr) MarshalText() ([]byte, error) {
	return RawBytes(e).MarshalText()
}

// MarshalJSON renders the section header fields next to its tagged body.
func (s Section) MarshalJSON() ([]byte, error) {
	type header Section
	var body json.RawMessage
	if s.Body != nil {
		b, err := json.Marshal(s.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}
	return json.Marshal(struct {
		header
		Body json.RawMessage `json:"body"`
	}{header(s), body})
}

// tagged marshals v and prepends a "kind" member to the resulting object.
// v must marshal to a JSON object and must not implement json.Marshaler.
func tagged(kind string, v any) ([]byte, error) {
	obj, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := []byte(`{"kind":` + strconv.Quote(kind))
	if len(obj) > 2 {
		out = append(out, ',')
		out = append(out, obj[1:]...)
		return out, nil
	}
	return append(out, '}'), nil
}

func (s *CustomSection) MarshalJSON() ([]byte, error) {
	type plain CustomSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *TypeSection) MarshalJSON() ([]byte, error) {
	type plain TypeSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *ImportSection) MarshalJSON() ([]byte, error) {
	type plain ImportSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *FunctionSection) MarshalJSON() ([]byte, error) {
	type plain FunctionSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *TableSection) MarshalJSON() ([]byte, error) {
	type plain TableSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *MemorySection) MarshalJSON() ([]byte, error) {
	type plain MemorySection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *GlobalSection) MarshalJSON() ([]byte, error) {
	type plain GlobalSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *ExportSection) MarshalJSON() ([]byte, error) {
	type plain ExportSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *StartSection) MarshalJSON() ([]byte, error) {
	type plain StartSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *ElementSection) MarshalJSON() ([]byte, error) {
	type plain ElementSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *CodeSection) MarshalJSON() ([]byte, error) {
	type plain CodeSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (s *DataSection) MarshalJSON() ([]byte, error) {
	type plain DataSection
	return tagged(s.SectionID().String(), (*plain)(s))
}

func (d FunctionImport) MarshalJSON() ([]byte, error) {
	type plain FunctionImport
	return tagged(d.Kind().String(), plain(d))
}

func (d TableImport) MarshalJSON() ([]byte, error) {
	type plain TableImport
	return tagged(d.Kind().String(), plain(d))
}

func (d MemoryImport) MarshalJSON() ([]byte, error) {
	type plain MemoryImport
	return tagged(d.Kind().String(), plain(d))
}

func (d GlobalImport) MarshalJSON() ([]byte, error) {
	type plain GlobalImport
	return tagged(d.Kind().String(), plain(d))
}
