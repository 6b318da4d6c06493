package wasm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	wasmerrors "github.com/wippyai/wasmparse/errors"
	"github.com/wippyai/wasmparse/wasm/internal/binary"
)

// ParseModule decodes a WebAssembly binary module from r with default options.
func ParseModule(r io.Reader) (*Module, error) {
	return ParseModuleWithOptions(r, nil)
}

// ParseModuleBytes decodes a WebAssembly binary module held in memory.
func ParseModuleBytes(data []byte) (*Module, error) {
	return ParseModuleWithOptions(bytes.NewReader(data), nil)
}

// ParseModuleWithOptions decodes a WebAssembly binary module from r.
// Bytes are consumed strictly in order; r is never seeked. On error no
// partial module is returned.
func ParseModuleWithOptions(r io.Reader, opts *Options) (*Module, error) {
	p := &parser{
		r:          binary.NewReader(r),
		log:        opts.logger(),
		skipLength: opts.skipLengthCheck(),
	}
	p.r.SetMaxAllocation(opts.maxAllocation(r))

	m, err := p.parse()
	if err != nil {
		p.log.Debug("parse failed",
			zap.Int64("offset", p.r.Position()),
			zap.Error(err))
		return nil, err
	}
	return m, nil
}

type parser struct {
	r          *binary.Reader
	log        *zap.Logger
	skipLength bool
}

func (p *parser) parse() (*Module, error) {
	magic, err := p.r.ReadU32LE("magic number")
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if magic != Magic {
		return nil, wasmerrors.BadMagic(magic, Magic)
	}

	version, err := p.r.ReadU32LE("version")
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if version != Version {
		return nil, wasmerrors.UnsupportedVersion(version, Version)
	}
	p.log.Debug("header accepted", zap.Uint32("version", version))

	m := &Module{Version: version}
	for {
		sec, ok, err := p.readSection()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		m.Sections = append(m.Sections, sec)
	}
	p.log.Debug("module decoded",
		zap.Int("sections", len(m.Sections)),
		zap.Int64("bytes", p.r.Position()))
	return m, nil
}

// readSection decodes the next section. ok is false when the input ended
// cleanly at a section boundary.
func (p *parser) readSection() (sec Section, ok bool, err error) {
	start := p.r.Position()
	code, ok, err := p.r.ReadSectionCode()
	if err != nil || !ok {
		return Section{}, false, err
	}
	id := SectionID(code)
	sec = Section{ID: id, Offset: start}

	payloadLen, _, err := p.r.ReadVarU32()
	if err != nil {
		return Section{}, false, sectionError(id, fmt.Errorf("payload length: %w", err))
	}
	sec.PayloadLen = payloadLen

	// The payload budget covers the custom section name, so a name longer
	// than the payload fails as an overrun.
	if err := p.r.PushBudget(id.String()+" section", uint64(payloadLen)); err != nil {
		return Section{}, false, sectionError(id, err)
	}

	if id == SectionCustom {
		name, _, err := p.r.ReadName("custom section name")
		if err != nil {
			return Section{}, false, sectionError(id, fmt.Errorf("name: %w", err))
		}
		sec.Name = &name
	}

	p.log.Debug("section header",
		zap.Stringer("id", id),
		zap.Uint8("code", code),
		zap.Int64("offset", start),
		zap.Uint32("payload_len", payloadLen),
		zap.Stringp("name", sec.Name))

	body, err := p.decodeBody(id)
	if err != nil {
		return Section{}, false, sectionError(id, err)
	}
	sec.Body = body

	if left := p.r.PopBudget(); left != 0 {
		eof, err := p.r.AtEOF()
		if err != nil {
			return Section{}, false, sectionError(id, err)
		}
		switch {
		case eof:
			// Input ended inside the payload after a complete body.
			p.log.Debug("section payload truncated at end of input",
				zap.Stringer("id", id),
				zap.Uint32("payload_len", payloadLen),
				zap.Uint64("missing", left))
		case !p.skipLength:
			return Section{}, false, sectionError(id, wasmerrors.LengthMismatch(
				p.r.Position(), id.String()+" section", uint64(payloadLen), uint64(payloadLen)-left))
		default:
			p.log.Debug("skipping unread section bytes",
				zap.Stringer("id", id),
				zap.Uint64("bytes", left))
			if err := p.r.Skip(left); err != nil {
				return Section{}, false, sectionError(id, err)
			}
		}
	}

	p.log.Debug("section decoded",
		zap.Stringer("id", id),
		zap.String("body", body.SectionID().String()),
		zap.Int("entries", body.Len()))
	return sec, true, nil
}

// decodeBody dispatches on the section code. Codes without a decoder keep
// their payload as a custom body.
func (p *parser) decodeBody(id SectionID) (SectionBody, error) {
	switch id {
	case SectionType:
		return decodeTypeSection(p.r)
	case SectionImport:
		return decodeImportSection(p.r)
	case SectionFunction:
		return decodeFunctionSection(p.r)
	case SectionTable:
		return decodeTableSection(p.r)
	case SectionMemory:
		return decodeMemorySection(p.r)
	case SectionGlobal:
		return decodeGlobalSection(p.r)
	case SectionExport:
		return decodeExportSection(p.r)
	case SectionStart:
		return decodeStartSection(p.r)
	case SectionElement:
		return decodeElementSection(p.r)
	case SectionCode:
		return decodeCodeSection(p.r)
	case SectionData:
		return decodeDataSection(p.r)
	default:
		return decodeCustomSection(p.r)
	}
}

// sectionError prefixes err with the section name and records the section
// on the structured error when none is set yet.
func sectionError(id SectionID, err error) error {
	var werr *wasmerrors.Error
	if errors.As(err, &werr) && werr.Section == "" {
		werr.Section = id.String() + " section"
	}
	if id.Known() {
		return fmt.Errorf("%s section: %w", id, err)
	}
	return fmt.Errorf("section %d: %w", byte(id), err)
}
