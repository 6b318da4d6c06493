package wasm_test

import (
	"encoding/json"
	"testing"

	"github.com/wippyai/wasmparse/wasm"
	"github.com/wippyai/wasmparse/wasm/internal/wasmtest"
)

func toGeneric(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
	return out
}

func sectionJSON(t *testing.T, m *wasm.Module, i int) map[string]any {
	t.Helper()
	return toGeneric(t, m.Sections[i])
}

func TestModuleJSON(t *testing.T) {
	m := parse(t, moduleBytes(sec(0x01, 0x01, 0x60, 0x01, 0x7F, 0x01, 0x7E)))
	doc := toGeneric(t, m)

	if doc["version"] != float64(1) {
		t.Errorf("version = %v", doc["version"])
	}
	sections, ok := doc["sections"].([]any)
	if !ok || len(sections) != 1 {
		t.Fatalf("sections = %v", doc["sections"])
	}
	s := sections[0].(map[string]any)
	if s["id"] != float64(1) || s["payload_len"] != float64(6) || s["offset"] != float64(8) {
		t.Errorf("section header = %v", s)
	}
	if _, ok := s["name"]; ok {
		t.Error("non-custom section has a name member")
	}

	body := s["body"].(map[string]any)
	if body["kind"] != "type" {
		t.Errorf("body kind = %v", body["kind"])
	}
	entry := body["entries"].([]any)[0].(map[string]any)
	if entry["form"] != "func" || entry["return"] != "i64" {
		t.Errorf("entry = %v", entry)
	}
	if params := entry["params"].([]any); len(params) != 1 || params[0] != "i32" {
		t.Errorf("params = %v", params)
	}
}

func TestCustomSectionJSON(t *testing.T) {
	m := parse(t, moduleBytes(
		wasmtest.NewWriter().CustomSection("dylink", []byte{0xDE, 0xAD}).Bytes(),
		sec(0x0E, 0x0B),
	))

	named := sectionJSON(t, m, 0)
	if named["name"] != "dylink" {
		t.Errorf("name = %v", named["name"])
	}
	body := named["body"].(map[string]any)
	if body["kind"] != "custom" || body["data"] != "dead" {
		t.Errorf("body = %v", body)
	}

	unknown := sectionJSON(t, m, 1)
	if unknown["id"] != float64(14) {
		t.Errorf("id = %v", unknown["id"])
	}
	if body := unknown["body"].(map[string]any); body["data"] != "0b" {
		t.Errorf("unknown body = %v", body)
	}
}

func TestImportJSON(t *testing.T) {
	m := parse(t, moduleBytes(sec(0x02,
		0x03,
		0x01, 'a', 0x01, 'f', 0x00, 0x02,
		0x01, 'a', 0x01, 't', 0x01, 0x70, 0x01, 0x00, 0x04,
		0x01, 'a', 0x01, 'g', 0x03, 0x7D, 0x00,
	)))
	body := sectionJSON(t, m, 0)["body"].(map[string]any)
	entries := body["entries"].([]any)

	fn := entries[0].(map[string]any)
	desc := fn["desc"].(map[string]any)
	if fn["module"] != "a" || fn["field"] != "f" || desc["kind"] != "function" || desc["type_index"] != float64(2) {
		t.Errorf("function import = %v", fn)
	}

	table := entries[1].(map[string]any)["desc"].(map[string]any)
	typ := table["type"].(map[string]any)
	limits := typ["limits"].(map[string]any)
	if table["kind"] != "table" || typ["element_type"] != "anyfunc" || limits["maximum"] != float64(4) {
		t.Errorf("table import = %v", table)
	}

	global := entries[2].(map[string]any)["desc"].(map[string]any)
	gt := global["type"].(map[string]any)
	if global["kind"] != "global" || gt["content_type"] != "f32" || gt["mutability"] != float64(0) {
		t.Errorf("global import = %v", global)
	}
}

func TestExportAndCodeJSON(t *testing.T) {
	m := parse(t, moduleBytes(
		sec(0x07, 0x01, 0x01, 'x', 0x01, 0x00),
		sec(0x0A, 0x01, 0x04, 0x01, 0x01, 0x7C, 0x0B),
		sec(0x0B, 0x01, 0x00, 0x41, 0x00, 0x0B, 0x02, 0x68, 0x69),
	))

	export := sectionJSON(t, m, 0)["body"].(map[string]any)["entries"].([]any)[0].(map[string]any)
	if export["kind"] != "table" || export["field"] != "x" {
		t.Errorf("export = %v", export)
	}

	fb := sectionJSON(t, m, 1)["body"].(map[string]any)["bodies"].([]any)[0].(map[string]any)
	if fb["code"] != "0b" || fb["body_size"] != float64(4) {
		t.Errorf("body = %v", fb)
	}
	local := fb["locals"].([]any)[0].(map[string]any)
	if local["type"] != "f64" || local["count"] != float64(1) {
		t.Errorf("local = %v", local)
	}

	seg := sectionJSON(t, m, 2)["body"].(map[string]any)["entries"].([]any)[0].(map[string]any)
	if seg["offset"] != "41000b" || seg["data"] != "6869" {
		t.Errorf("data segment = %v", seg)
	}
}

func TestStartJSON(t *testing.T) {
	m := parse(t, moduleBytes(sec(0x08, 0x03)))
	body := sectionJSON(t, m, 0)["body"].(map[string]any)
	if body["kind"] != "start" || body["function_index"] != float64(3) {
		t.Errorf("start = %v", body)
	}
}

func TestValueTypeText(t *testing.T) {
	for _, tt := range []struct {
		vt   wasm.ValueType
		want string
		code int64
	}{
		{wasm.I32, "i32", -0x01},
		{wasm.I64, "i64", -0x02},
		{wasm.F32, "f32", -0x03},
		{wasm.F64, "f64", -0x04},
		{wasm.Anyfunc, "anyfunc", -0x10},
		{wasm.Func, "func", -0x20},
		{wasm.EmptyBlockType, "empty", -0x40},
	} {
		text, err := tt.vt.MarshalText()
		if err != nil || string(text) != tt.want {
			t.Errorf("%v: MarshalText = %q, %v", tt.vt, text, err)
		}
		if tt.vt.Code() != tt.code {
			t.Errorf("%v: Code = %d, want %d", tt.vt, tt.vt.Code(), tt.code)
		}
		if got, ok := wasm.ValueTypeFromCode(tt.code); !ok || got != tt.vt {
			t.Errorf("ValueTypeFromCode(%d) = %v, %v", tt.code, got, ok)
		}
	}

	if _, err := wasm.ValueType(0).MarshalText(); err == nil {
		t.Error("zero value type should not marshal")
	}
	if _, ok := wasm.ValueTypeFromCode(-0x05); ok {
		t.Error("-0x05 is not a value type")
	}
}
