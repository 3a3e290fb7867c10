package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/analysis"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/filter"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/output"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

const barWidth = 30

// tabTitles lists the dashboard tabs: the impact matrix first, then each functional tab.
func (m Model) tabTitles() []string {
	titles := []string{"Impact"}
	for _, t := range m.snap.Dashboard.Tabs {
		titles = append(titles, t.Title)
	}
	return titles
}

func (m *Model) updateDashboard(msg tea.KeyMsg) {
	n := len(m.tabTitles())
	switch msg.String() {
	case "left", "h", "shift+tab":
		m.tab = (m.tab - 1 + n) % n
		m.scroll = 0
	case "right", "l", "tab":
		m.tab = (m.tab + 1) % n
		m.scroll = 0
	default:
		m.updateScroll(msg)
	}
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	var tabs []string
	for i, title := range m.tabTitles() {
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, tabStyle.Render(title))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	d := m.snap.Dashboard
	status := fmt.Sprintf("%d rows in view", d.Rows)
	if sel := filterSummary(m.snap.Selection); sel != "" {
		status += " • " + sel
	}
	b.WriteString(mutedStyle.Render(status))
	b.WriteString("\n")

	if m.tab == 0 {
		b.WriteString(renderImpact(d.Impact))
		return b.String()
	}
	b.WriteString(renderTab(d.Tabs[m.tab-1]))
	return b.String()
}

func filterSummary(sel map[schema.Field][]string) string {
	var parts []string
	for _, dim := range filter.Dimensions {
		if keys, ok := sel[dim]; ok {
			parts = append(parts, dim.Label()+" = "+strings.Join(keys, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

func renderImpact(r analysis.Result[*analysis.Matrix]) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Impact Matrix: Functional vs Financial KPIs (correlation)"))
	b.WriteString("\n")
	if !r.Available() {
		b.WriteString(mutedStyle.Render("Not enough numeric columns detected to build impact matrix (" + r.Reason + ")."))
		return b.String()
	}
	mx := r.Data
	cols := []table.Column{{Title: "", Width: 20}}
	for _, label := range mx.Labels {
		cols = append(cols, table.Column{Title: abbreviate(label, 8), Width: 8})
	}
	var rows []table.Row
	for i, label := range mx.Labels {
		row := table.Row{label}
		for j := range mx.Labels {
			row = append(row, output.FormatFloat(mx.At(i, j)))
		}
		rows = append(rows, row)
	}
	b.WriteString(staticTable(cols, rows))
	return b.String()
}

func renderTab(tab dashboard.Tab) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(tab.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(tab.Subtitle))
	b.WriteString("\n")

	if len(tab.KPIs) > 0 {
		var cards []string
		for _, k := range tab.KPIs {
			v := output.Blank
			if k.Value.Available() {
				v = output.FormatNumber(k.Value.Data)
			}
			cards = append(cards, cardStyle.Render(labelStyle.Render(k.Label)+"\n"+v+"\n"+mutedStyle.Render(k.Hint)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n")
	}

	for _, t := range tab.Trends {
		if !t.Available() {
			b.WriteString(mutedStyle.Render(t.Reason))
			b.WriteString("\n")
			continue
		}
		b.WriteString(sectionStyle.Render(t.Data.Title))
		b.WriteString("\n")
		b.WriteString(renderBars(t.Data))
	}

	for _, c := range tab.Contributions {
		if !c.Available() {
			b.WriteString(mutedStyle.Render(c.Reason))
			b.WriteString("\n")
			continue
		}
		ct := c.Data
		b.WriteString(sectionStyle.Render(ct.Title))
		b.WriteString("\n")
		cols := []table.Column{{Title: ct.GroupLabel, Width: 20}}
		for _, col := range ct.Columns {
			cols = append(cols, table.Column{Title: col, Width: max(12, len(col))})
		}
		var rows []table.Row
		for _, r := range ct.Rows {
			row := table.Row{r.Group.String()}
			for _, v := range r.Values {
				row = append(row, output.FormatFloat(v))
			}
			rows = append(rows, row)
		}
		b.WriteString(staticTable(cols, rows))
		b.WriteString("\n")
	}

	if rels := tab.Relationships(); len(rels) > 0 {
		b.WriteString(sectionStyle.Render("Relationships"))
		b.WriteString("\n")
		for _, s := range rels {
			if !s.Available() {
				b.WriteString(mutedStyle.Render(s.Reason))
				b.WriteString("\n")
				continue
			}
			rel := s.Data
			line := fmt.Sprintf("%s: %d points", rel.Title, len(rel.Points))
			if rel.Fit != nil {
				line += fmt.Sprintf(", slope %.4g, R² %s", rel.Fit.Slope, output.FormatFloat(rel.Fit.R2))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderBars draws a series as horizontal bars scaled to its largest magnitude.
func renderBars(s *analysis.Series) string {
	peak := 0.0
	for _, p := range s.Points {
		peak = math.Max(peak, math.Abs(p.Y))
	}
	var b strings.Builder
	for _, p := range s.Points {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(p.Y) / peak * barWidth))
		}
		fmt.Fprintf(&b, "%8s │ %s %s\n", abbreviate(p.Label, 8), labelStyle.Render(strings.Repeat("█", n)), output.FormatNumber(p.Y))
	}
	return b.String()
}

// staticTable renders a non-interactive bubbles table sized to its rows.
func staticTable(cols []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)
	return t.View()
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
