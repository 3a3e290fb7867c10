package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/output"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

const autoOption = "auto"

// choices lists what a field can be set to: auto-detect, none, then every column.
func (m Model) choices() []string {
	return append([]string{autoOption}, m.snap.Resolved.Options()...)
}

// currentChoice is the index into choices of a mapping entry's state.
func currentChoice(e schema.Entry, choices []string) int {
	if !e.Overridden {
		return 0
	}
	if e.Column == "" {
		return 1
	}
	for i, c := range choices[2:] {
		if c == e.Column {
			return i + 2
		}
	}
	return 0
}

func (m *Model) updateMapping(msg tea.KeyMsg) {
	entries := m.snap.Mapping
	switch msg.String() {
	case "up", "k":
		if m.mapCursor > 0 {
			m.mapCursor--
		}
	case "down", "j":
		if m.mapCursor < len(entries)-1 {
			m.mapCursor++
		}
	case "left", "h":
		m.cycleChoice(-1)
	case "right", "l", "enter":
		m.cycleChoice(1)
	case "a":
		m.session.ClearOverride(entries[m.mapCursor].Field)
		m.refresh()
	}
}

func (m *Model) cycleChoice(step int) {
	e := m.snap.Mapping[m.mapCursor]
	choices := m.choices()
	next := (currentChoice(e, choices) + step + len(choices)) % len(choices)

	switch next {
	case 0:
		m.session.ClearOverride(e.Field)
	case 1:
		if err := m.session.SetOverride(e.Field, schema.NoColumn()); err != nil {
			m.err = err
			return
		}
	default:
		if err := m.session.SetOverride(e.Field, schema.UseColumn(choices[next])); err != nil {
			m.err = err
			return
		}
	}
	m.refresh()
}

func (m Model) viewMapping() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Column mapping"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("If detection picked the wrong column, choose one here."))
	b.WriteString("\n\n")

	for i, e := range m.snap.Mapping {
		current := orBlank(e.Column)
		if !e.Overridden {
			current += mutedStyle.Render(" (auto)")
		}
		line := fmt.Sprintf("%-26s %-28s detected: %s", e.Label, current, orBlank(e.Detected))
		if i == m.mapCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orBlank(s string) string {
	if s == "" {
		return output.Blank
	}
	return s
}
