package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilters(msg tea.KeyMsg) {
	opts := m.snap.Filters
	if len(opts) == 0 {
		return
	}
	if m.filterDim >= len(opts) {
		m.filterDim, m.filterItem = 0, 0
	}
	values := opts[m.filterDim].Values

	switch msg.String() {
	case "left", "h", "shift+tab":
		m.filterDim = (m.filterDim - 1 + len(opts)) % len(opts)
		m.filterItem = 0
	case "right", "l", "tab":
		m.filterDim = (m.filterDim + 1) % len(opts)
		m.filterItem = 0
	case "up", "k":
		if m.filterItem > 0 {
			m.filterItem--
		}
	case "down", "j":
		if m.filterItem < len(values)-1 {
			m.filterItem++
		}
	case " ", "enter":
		if m.filterItem < len(values) {
			if _, err := m.session.Toggle(opts[m.filterDim].Dimension, values[m.filterItem].Key()); err != nil {
				m.err = err
				return
			}
			m.refresh()
		}
	case "c":
		m.session.ClearFilter(opts[m.filterDim].Dimension)
		m.refresh()
	}
}

func (m Model) viewFilters() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Filters"))
	b.WriteString("\n")

	opts := m.snap.Filters
	if len(opts) == 0 {
		b.WriteString(mutedStyle.Render("No filterable columns detected."))
		return b.String()
	}
	dim := min(m.filterDim, len(opts)-1)

	var heads []string
	for i, o := range opts {
		if i == dim {
			heads = append(heads, activeTabStyle.Render(o.Dimension.Label()))
		} else {
			heads = append(heads, tabStyle.Render(o.Dimension.Label()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, heads...))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("column: " + opts[dim].Column))
	b.WriteString("\n\n")

	sel := m.session.Selection()
	for i, v := range opts[dim].Values {
		box := "[ ]"
		if sel[opts[dim].Dimension][v.Key()] {
			box = "[x]"
		}
		line := box + " " + v.String()
		if i == m.filterItem {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if s := filterSummary(m.snap.Selection); s != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Active: " + s))
	}
	return b.String()
}
