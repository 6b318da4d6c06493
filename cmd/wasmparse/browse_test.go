package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/wasmparse"
)

func newTestBrowser(t *testing.T) browseModel {
	t.Helper()
	m, err := wasmparse.ParseBytes(sample, nil)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return newBrowseModel(m, "m.wasm", palette{})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m browseModel, keys ...string) (browseModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(browseModel)
	}
	return m, cmd
}

func TestBrowseNavigation(t *testing.T) {
	m := newTestBrowser(t)
	if len(m.visible) != 5 {
		t.Fatalf("visible = %v", m.visible)
	}

	m, _ = send(m, "down", "down", "up", "down", "down")
	if m.selected != 3 {
		t.Errorf("selected = %d, want 3", m.selected)
	}
	m, _ = send(m, "down", "down", "down")
	if m.selected != 4 {
		t.Errorf("selection ran past the end: %d", m.selected)
	}

	view := m.View()
	if !strings.Contains(view, `> [4] custom "name"`) {
		t.Errorf("selected row not marked:\n%s", view)
	}
	if !strings.Contains(view, "m.wasm  version 1  5 sections") {
		t.Errorf("missing title:\n%s", view)
	}
}

func TestBrowseDetail(t *testing.T) {
	m := newTestBrowser(t)

	m, _ = send(m, "down", "down", "enter")
	if m.state != stateDetail {
		t.Fatalf("state = %v, want detail", m.state)
	}
	view := m.View()
	if !strings.Contains(view, `export[0]: "run" function 0`) {
		t.Errorf("detail view:\n%s", view)
	}

	m, _ = send(m, "esc")
	if m.state != stateList || m.selected != 2 {
		t.Errorf("after esc: state=%v selected=%d", m.state, m.selected)
	}
}

func TestBrowseFilter(t *testing.T) {
	m := newTestBrowser(t)

	m, _ = send(m, "/", "c", "o", "d", "e", "enter")
	if m.state != stateList {
		t.Fatalf("state = %v", m.state)
	}
	if len(m.visible) != 1 || m.visible[0] != 3 {
		t.Fatalf("visible = %v, want [3]", m.visible)
	}
	if !strings.Contains(m.View(), `filter: "code"`) {
		t.Errorf("filter not shown:\n%s", m.View())
	}

	m, _ = send(m, "/", "z", "z", "enter")
	if len(m.visible) != 0 || !strings.Contains(m.View(), "no sections match") {
		t.Errorf("empty filter result: %v\n%s", m.visible, m.View())
	}
	m, _ = send(m, "enter")
	if m.state != stateList {
		t.Error("enter on an empty list changed state")
	}

	m, _ = send(m, "/", "esc")
	if len(m.visible) != 5 || m.query != "" {
		t.Errorf("esc did not clear the filter: %v %q", m.visible, m.query)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(t)
	_, cmd := send(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestBrowseWindowSize(t *testing.T) {
	m := newTestBrowser(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 6})
	m = next.(browseModel)
	if m.viewport.Width != 100 || m.viewport.Height != 2 {
		t.Errorf("viewport = %dx%d", m.viewport.Width, m.viewport.Height)
	}

	// Two rows fit; the selection scrolls the list.
	m, _ = send(m, "down", "down", "down")
	view := m.View()
	if strings.Contains(view, "[0] type") || !strings.Contains(view, "> [3] code") {
		t.Errorf("list did not scroll:\n%s", view)
	}
}
