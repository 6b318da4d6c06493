package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasmparse/wasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3C3C3C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// palette renders text through the lipgloss styles, or leaves it plain
// when color is off.
type palette struct {
	enabled bool
}

func (p palette) render(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

func (p palette) renderer(style lipgloss.Style) func(string) string {
	if !p.enabled {
		return nil
	}
	return func(s string) string { return style.Render(s) }
}

func (p palette) dumpStyle() wasm.DumpStyle {
	return wasm.DumpStyle{
		Header:  p.renderer(titleStyle),
		Section: p.renderer(sectionStyle),
		Key:     p.renderer(keyStyle),
		Value:   p.renderer(valueStyle),
		Bytes:   p.renderer(bytesStyle),
	}
}
