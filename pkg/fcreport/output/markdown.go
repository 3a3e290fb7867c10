package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/analysis"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/filter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Blank is shown in place of unavailable values.
const Blank = "—"

var printer = message.NewPrinter(language.English)

// FormatNumber renders a value with thousands separators and two decimals.
func FormatNumber(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatFloat renders a possibly-missing value.
func FormatFloat(f analysis.Float) string {
	if !f.Valid() {
		return Blank
	}
	return FormatNumber(float64(f))
}

// Markdown renders a snapshot. When tabs is empty every tab is rendered.
func Markdown(snap *fcreport.Snapshot, tabs ...dashboard.TabID) string {
	var b strings.Builder
	d := snap.Dashboard

	b.WriteString("# Executive VP Dashboard\n\n")
	fmt.Fprintf(&b, "The Fresh Connection: functional and financial KPIs, %d rows in view.\n\n", d.Rows)
	if len(snap.Selection) > 0 {
		b.WriteString("Filters:")
		for _, dim := range filter.Dimensions {
			if keys, ok := snap.Selection[dim]; ok {
				fmt.Fprintf(&b, " **%s** = %s;", dim.Label(), strings.Join(keys, ", "))
			}
		}
		b.WriteString("\n\n")
	}

	functional, financial := dashboard.Overview()
	b.WriteString("## Overview\n\n")
	for _, fam := range append(functional, financial...) {
		labels := make([]string, len(fam.Fields))
		for i, f := range fam.Fields {
			labels[i] = f.Label()
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", fam.Name, strings.Join(labels, ", "))
	}
	b.WriteString("\n")

	writeImpact(&b, d.Impact)

	for _, tab := range d.Tabs {
		if len(tabs) > 0 && !containsTab(tabs, tab.ID) {
			continue
		}
		writeTab(&b, tab)
	}

	writeSources(&b, snap)
	return b.String()
}

func containsTab(tabs []dashboard.TabID, id dashboard.TabID) bool {
	for _, t := range tabs {
		if t == id {
			return true
		}
	}
	return false
}

func writeImpact(b *strings.Builder, r analysis.Result[*analysis.Matrix]) {
	b.WriteString("## Impact Matrix: Functional vs Financial KPIs (correlation)\n\n")
	if !r.Available() {
		fmt.Fprintf(b, "_Not enough numeric columns detected to build impact matrix (%s). Map KPI columns if needed._\n\n", r.Reason)
		return
	}
	mx := r.Data
	header := append([]string{""}, mx.Labels...)
	rows := make([][]string, len(mx.Labels))
	for i, label := range mx.Labels {
		rows[i] = append(rows[i], "**"+label+"**")
		for j := range mx.Labels {
			rows[i] = append(rows[i], FormatFloat(mx.At(i, j)))
		}
	}
	writeTable(b, header, rows)
}

func writeTab(b *strings.Builder, tab dashboard.Tab) {
	fmt.Fprintf(b, "## %s\n\n_%s_\n\n", tab.Title, tab.Subtitle)

	if len(tab.KPIs) > 0 {
		var rows [][]string
		for _, k := range tab.KPIs {
			v := Blank
			if k.Value.Available() {
				v = FormatNumber(k.Value.Data)
			}
			rows = append(rows, []string{k.Label, v, k.Hint})
		}
		writeTable(b, []string{"KPI", "Value", ""}, rows)
	}

	if len(tab.Trends) > 0 {
		b.WriteString("### Trends by Round\n\n")
		for _, t := range tab.Trends {
			if !t.Available() {
				fmt.Fprintf(b, "_%s_\n\n", t.Reason)
				continue
			}
			s := t.Data
			fmt.Fprintf(b, "**%s** (%s)\n\n", s.Title, s.Kind)
			var rows [][]string
			for _, p := range s.Points {
				rows = append(rows, []string{p.Label, FormatNumber(p.Y)})
			}
			writeTable(b, []string{s.XLabel, s.YLabel}, rows)
		}
	}

	for _, c := range tab.Contributions {
		if !c.Available() {
			fmt.Fprintf(b, "_%s_\n\n", c.Reason)
			continue
		}
		t := c.Data
		fmt.Fprintf(b, "### %s\n\n", t.Title)
		var rows [][]string
		for _, r := range t.Rows {
			line := []string{r.Group.String()}
			for _, v := range r.Values {
				line = append(line, FormatFloat(v))
			}
			rows = append(rows, line)
		}
		writeTable(b, append([]string{t.GroupLabel}, t.Columns...), rows)
	}

	if rels := tab.Relationships(); len(rels) > 0 {
		b.WriteString("### Relationships\n\n")
		var rows [][]string
		for _, s := range rels {
			if !s.Available() {
				rows = append(rows, []string{s.Reason, Blank, Blank, Blank})
				continue
			}
			rel := s.Data
			slope, r2 := Blank, Blank
			if rel.Fit != nil {
				slope = printer.Sprintf("%.4g", rel.Fit.Slope)
				r2 = FormatFloat(rel.Fit.R2)
			}
			rows = append(rows, []string{rel.Title, fmt.Sprint(len(rel.Points)), slope, r2})
		}
		writeTable(b, []string{"Relationship", "Points", "OLS slope", "R²"}, rows)
	}
}

func writeSources(b *strings.Builder, snap *fcreport.Snapshot) {
	b.WriteString("## Data sources & column mapping\n\n")
	var rows [][]string
	for _, e := range snap.Sources {
		rows = append(rows, []string{e.File, e.Sheet, fmt.Sprint(e.Rows), strings.Join(e.Columns, ", "), e.Error})
	}
	writeTable(b, []string{"File", "Sheet", "Rows", "Columns", "Error"}, rows)

	rows = rows[:0]
	for _, e := range snap.Mapping {
		over := ""
		if e.Overridden {
			over = "yes"
		}
		rows = append(rows, []string{e.Label, orBlank(e.Detected), orBlank(e.Column), over})
	}
	writeTable(b, []string{"Field", "Detected", "Current", "Overridden"}, rows)
}

func orBlank(s string) string {
	if s == "" {
		return Blank
	}
	return s
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, r := range rows {
		b.WriteString("| " + strings.Join(escapeCells(r), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(strings.ReplaceAll(c, "|", `\|`), "\n", " ")
	}
	return out
}

const htmlHead = `<!doctype html><html><head><meta charset="utf-8"><title>Executive VP Dashboard</title>
<style>
body {font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a1a;}
table {border-collapse: collapse; margin-bottom: 1rem;}
th, td {border: 1px solid rgba(0,0,0,0.1); padding: .3rem .6rem; text-align: right;}
th:first-child, td:first-child {text-align: left;}
em {opacity: .75;}
</style></head><body>
`

// HTML renders the Markdown report as a standalone HTML page.
func HTML(snap *fcreport.Snapshot, tabs ...dashboard.TabID) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	buf.WriteString(htmlHead)
	if err := md.Convert([]byte(Markdown(snap, tabs...)), &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}
