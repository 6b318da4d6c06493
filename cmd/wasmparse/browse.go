package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasmparse/wasm"
)

var errNotTerminal = errors.New("browse needs an interactive terminal")

func newBrowseCommand(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file.wasm>",
		Short: "Browse sections interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gs.stdoutTTY {
				return errNotTerminal
			}
			m, err := gs.loadModule(args[0])
			if err != nil {
				return err
			}
			model := newBrowseModel(m, args[0], palette{enabled: !gs.flags.noColor})
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateList browseState = iota
	stateDetail
	stateFilter
)

// chrome is the number of lines taken by the title and help footer.
const chrome = 4

type browseModel struct {
	module   *wasm.Module
	filename string
	palette  palette

	state    browseState
	visible  []int // indices into module.Sections matching the filter
	selected int
	query    string

	filter   textinput.Model
	viewport viewport.Model
	height   int
}

func newBrowseModel(m *wasm.Module, filename string, p palette) browseModel {
	ti := textinput.New()
	ti.Placeholder = "kind, name or offset"
	ti.CharLimit = 64
	ti.Width = 40

	model := browseModel{
		module:   m,
		filename: filename,
		palette:  p,
		filter:   ti,
		viewport: viewport.New(80, 20),
		height:   24,
	}
	model.applyFilter("")
	return model
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

// applyFilter keeps the sections whose summary contains query, case-insensitively.
func (m *browseModel) applyFilter(query string) {
	m.query = query
	q := strings.ToLower(strings.TrimSpace(query))
	m.visible = make([]int, 0, len(m.module.Sections))
	for i := range m.module.Sections {
		if q == "" || strings.Contains(strings.ToLower(m.module.Sections[i].Summary()), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = 0
}

func (m browseModel) current() (*wasm.Section, int, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return nil, 0, false
	}
	idx := m.visible[m.selected]
	return &m.module.Sections[idx], idx, true
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilter:
			return m.updateFilter(msg)
		case stateDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case "enter":
		sec, idx, ok := m.current()
		if !ok {
			return m, nil
		}
		var b strings.Builder
		if err := wasm.DumpSection(&b, idx, sec, m.palette.dumpStyle()); err != nil {
			b.WriteString(err.Error())
		}
		m.viewport.SetContent(b.String())
		m.viewport.GotoTop()
		m.state = stateDetail
	case "/":
		m.state = stateFilter
		m.filter.SetValue(m.query)
		return m, m.filter.Focus()
	}
	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.applyFilter(m.filter.Value())
		m.filter.Blur()
		m.state = stateList
		return m, nil
	case "esc":
		m.applyFilter("")
		m.filter.Blur()
		m.state = stateList
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	var b strings.Builder
	title := fmt.Sprintf("%s  version %d  %d sections", m.filename, m.module.Version, len(m.module.Sections))
	b.WriteString(m.palette.render(titleStyle, title))
	b.WriteString("\n\n")

	switch m.state {
	case stateDetail:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.palette.render(helpStyle, "↑/↓ scroll • esc back • q quit"))
	case stateFilter:
		b.WriteString("Filter: ")
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		b.WriteString(m.palette.render(helpStyle, "enter apply • esc clear"))
	default:
		m.listView(&b)
		b.WriteString("\n")
		b.WriteString(m.palette.render(helpStyle, "↑/↓ navigate • enter inspect • / filter • q quit"))
	}
	return b.String()
}

func (m browseModel) listView(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString(m.palette.render(errorStyle, "no sections match "+fmt.Sprintf("%q", m.query)))
		b.WriteString("\n")
		return
	}

	// Scroll the list so the selected row stays on screen.
	rows := max(m.height-chrome, 1)
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(start+rows, len(m.visible))

	for i := start; i < end; i++ {
		idx := m.visible[i]
		line := fmt.Sprintf("[%d] %s", idx, m.module.Sections[idx].Summary())
		if i == m.selected {
			b.WriteString(m.palette.render(selectedStyle, "> "+line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.query != "" {
		b.WriteString(m.palette.render(helpStyle, fmt.Sprintf("filter: %q", m.query)))
		b.WriteString("\n")
	}
}
