package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

func (m Model) viewSources() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Data sources"))
	b.WriteString("\n")

	cols := []table.Column{
		{Title: "File", Width: 30},
		{Title: "Sheet", Width: 18},
		{Title: "Rows", Width: 6},
		{Title: "Status", Width: 40},
	}
	var rows []table.Row
	for _, e := range m.snap.Sources {
		status := "ok"
		if !e.OK() {
			status = e.Error
		}
		rows = append(rows, table.Row{abbreviate(e.File, 30), e.Sheet, fmt.Sprint(e.Rows), abbreviate(status, 40)})
	}
	b.WriteString(staticTable(cols, rows))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Columns"))
	b.WriteString("\n")
	b.WriteString(strings.Join(m.snap.Table.Columns, ", "))
	return b.String()
}
