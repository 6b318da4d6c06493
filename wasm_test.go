package wasmparse_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/wasmparse"
	wasmerrors "github.com/wippyai/wasmparse/errors"
	"github.com/wippyai/wasmparse/wasm"
)

var startModule = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
	0x08, 0x01, 0x00,
}

func TestParseBytes(t *testing.T) {
	m, err := wasmparse.ParseBytes(startModule, nil)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if len(m.Sections) != 1 || m.Sections[0].ID != wasm.SectionStart {
		t.Errorf("sections = %+v", m.Sections)
	}
}

func TestParseReader(t *testing.T) {
	m, err := wasmparse.Parse(strings.NewReader(string(startModule)), &wasm.Options{SkipLengthCheck: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version = %d", m.Version)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "start.wasm")
	if err := os.WriteFile(path, startModule, 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := wasmparse.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if body, ok := m.Sections[0].Body.(*wasm.StartSection); !ok || body.FunctionIndex != 0 {
		t.Errorf("body = %#v", m.Sections[0].Body)
	}
}

func TestParseFileErrors(t *testing.T) {
	if _, err := wasmparse.ParseFile(filepath.Join(t.TempDir(), "missing.wasm"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.wasm")
	if err := os.WriteFile(path, []byte("\x00asn\x01\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := wasmparse.ParseFile(path, nil)
	if !errors.Is(err, wasmerrors.ErrBadMagic) {
		t.Fatalf("expected BadMagic, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.wasm") {
		t.Errorf("error does not name the file: %v", err)
	}
}
