// Package tui is the interactive terminal dashboard: functional tabs, column
// mapping overrides and filters over one session.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ukaji3/fcreport-go/pkg/fcreport"
)

// Screen identifies what the TUI is showing.
type Screen int

const (
	DashboardScreen Screen = iota
	MappingScreen
	FilterScreen
	SourcesScreen
)

// Model is the root bubbletea model.
type Model struct {
	session *fcreport.Session
	snap    *fcreport.Snapshot
	err     error

	screen Screen
	tab    int
	scroll int

	mapCursor  int
	filterDim  int
	filterItem int

	width    int
	height   int
	quitting bool
}

// NewModel creates the TUI over a session and computes the first snapshot.
func NewModel(sess *fcreport.Session) Model {
	m := Model{session: sess}
	m.refresh()
	return m
}

// refresh recomputes everything derived from the session.
func (m *Model) refresh() {
	snap, err := m.session.Snapshot()
	if err != nil {
		m.err = err
		return
	}
	m.snap, m.err = snap, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "d", "esc":
			m.screen, m.scroll = DashboardScreen, 0
			return m, nil
		case "m":
			m.screen, m.scroll = MappingScreen, 0
			return m, nil
		case "f":
			m.screen, m.scroll = FilterScreen, 0
			return m, nil
		case "s":
			m.screen, m.scroll = SourcesScreen, 0
			return m, nil
		case "r":
			if err := m.session.Reload(); err != nil {
				m.err = err
				return m, nil
			}
			m.refresh()
			return m, nil
		}

		if m.snap == nil {
			return m, nil
		}
		switch m.screen {
		case DashboardScreen:
			m.updateDashboard(msg)
		case MappingScreen:
			m.updateMapping(msg)
		case FilterScreen:
			m.updateFilters(msg)
		case SourcesScreen:
			m.updateScroll(msg)
		}
	}
	return m, nil
}

func (m *Model) updateScroll(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		m.scroll++
	case "pgup":
		m.scroll = max(0, m.scroll-m.pageSize())
	case "pgdown":
		m.scroll += m.pageSize()
	}
}

func (m Model) pageSize() int {
	if m.height <= 6 {
		return 20
	}
	return m.height - 6
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content, help string
	switch {
	case m.snap == nil:
		content = ""
		help = "r reload • q quit"
	default:
		switch m.screen {
		case DashboardScreen:
			content = m.viewDashboard()
			help = "←/→ tab • ↑/↓ scroll • m mapping • f filters • s sources • r reload • q quit"
		case MappingScreen:
			content = m.viewMapping()
			help = "↑/↓ field • ←/→ change column • a auto-detect • esc dashboard • q quit"
		case FilterScreen:
			content = m.viewFilters()
			help = "tab/←/→ dimension • ↑/↓ value • space toggle • c clear • esc dashboard • q quit"
		case SourcesScreen:
			content = m.viewSources()
			help = "↑/↓ scroll • esc dashboard • q quit"
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Executive VP Dashboard"))
	b.WriteString("\n")
	b.WriteString(window(content, m.scroll, m.pageSize()))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// window returns at most size lines of s starting at offset.
func window(s string, offset, size int) string {
	lines := strings.Split(s, "\n")
	if offset >= len(lines) {
		offset = max(0, len(lines)-1)
	}
	end := min(len(lines), offset+size)
	return strings.Join(lines[offset:end], "\n")
}
