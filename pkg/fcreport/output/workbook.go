package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/analysis"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/xuri/excelize/v2"
)

const (
	chartWidth  = 480
	chartHeight = 288
	// chartRows is the number of default-height rows a chart covers.
	chartRows = 16
	chartCol  = 6
)

// sheetWriter appends blocks to one worksheet, tracking the next free row.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) ref(col, r1, r2 int) string {
	start, _ := excelize.CoordinatesToCellName(col, r1, true)
	end, _ := excelize.CoordinatesToCellName(col, r2, true)
	return fmt.Sprintf("'%s'!%s:%s", strings.ReplaceAll(w.sheet, "'", "''"), start, end)
}

func (w *sheetWriter) writeRow(values ...any) error {
	if err := w.f.SetSheetRow(w.sheet, w.cell(1, w.row), &values); err != nil {
		return err
	}
	w.row++
	return nil
}

func (w *sheetWriter) skip(n int) {
	w.row += n
}

// WriteWorkbook exports a snapshot as an xlsx file: an impact matrix sheet, one
// sheet per tab with data blocks and native charts, and a sources sheet.
func WriteWorkbook(path string, snap *fcreport.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Impact"); err != nil {
		return err
	}
	if err := writeImpactSheet(&sheetWriter{f: f, sheet: "Impact", row: 1}, snap.Dashboard.Impact); err != nil {
		return fmt.Errorf("impact sheet: %w", err)
	}

	for _, tab := range snap.Dashboard.Tabs {
		if _, err := f.NewSheet(tab.Title); err != nil {
			return err
		}
		if err := writeTabSheet(&sheetWriter{f: f, sheet: tab.Title, row: 1}, tab); err != nil {
			return fmt.Errorf("%s sheet: %w", tab.Title, err)
		}
	}

	if _, err := f.NewSheet("Sources"); err != nil {
		return err
	}
	if err := writeSourcesSheet(&sheetWriter{f: f, sheet: "Sources", row: 1}, snap); err != nil {
		return fmt.Errorf("sources sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

func writeImpactSheet(w *sheetWriter, r analysis.Result[*analysis.Matrix]) error {
	if !r.Available() {
		return w.writeRow("Impact matrix unavailable", r.Reason)
	}
	mx := r.Data
	header := []any{""}
	for _, l := range mx.Labels {
		header = append(header, l)
	}
	if err := w.writeRow(header...); err != nil {
		return err
	}
	for i, l := range mx.Labels {
		line := []any{l}
		for j := range mx.Labels {
			line = append(line, cellFloat(mx.At(i, j)))
		}
		if err := w.writeRow(line...); err != nil {
			return err
		}
	}
	return nil
}

// cellFloat returns nil for missing values so the cell stays blank.
func cellFloat(f analysis.Float) any {
	if !f.Valid() {
		return nil
	}
	return math.Round(float64(f)*100) / 100
}

func writeTabSheet(w *sheetWriter, tab dashboard.Tab) error {
	if err := w.writeRow(tab.Subtitle); err != nil {
		return err
	}
	w.skip(1)

	for _, k := range tab.KPIs {
		var v any = Blank
		if k.Value.Available() {
			v = k.Value.Data
		}
		if err := w.writeRow(k.Label, v, k.Hint); err != nil {
			return err
		}
	}
	if len(tab.KPIs) > 0 {
		w.skip(1)
	}

	for _, t := range tab.Trends {
		if err := writeTrend(w, t); err != nil {
			return err
		}
	}
	for _, c := range tab.Contributions {
		if err := writeContribution(w, c); err != nil {
			return err
		}
	}
	for _, s := range tab.Relationships() {
		if err := writeScatter(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeTrend(w *sheetWriter, r analysis.Result[*analysis.Series]) error {
	if !r.Available() {
		err := w.writeRow(r.Reason)
		w.skip(1)
		return err
	}
	s := r.Data
	start := w.row
	if err := w.writeRow(s.Title); err != nil {
		return err
	}
	if err := w.writeRow(s.XLabel, s.YLabel); err != nil {
		return err
	}
	first := w.row
	for _, p := range s.Points {
		if err := w.writeRow(p.Label, p.Y); err != nil {
			return err
		}
	}
	last := w.row - 1

	chartType := excelize.Line
	if s.Kind == analysis.Bar {
		chartType = excelize.Col
	}
	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       s.YLabel,
			Categories: w.ref(1, first, last),
			Values:     w.ref(2, first, last),
		}},
		Title:     []excelize.RichTextRun{{Text: s.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	}
	if err := w.f.AddChart(w.sheet, w.cell(chartCol, start), chart); err != nil {
		return err
	}
	w.row = max(w.row, start+chartRows) + 1
	return nil
}

func writeContribution(w *sheetWriter, r analysis.Result[*analysis.ContributionTable]) error {
	if !r.Available() {
		err := w.writeRow(r.Reason)
		w.skip(1)
		return err
	}
	t := r.Data
	if err := w.writeRow(t.Title); err != nil {
		return err
	}
	header := []any{t.GroupLabel}
	for _, c := range t.Columns {
		header = append(header, c)
	}
	if err := w.writeRow(header...); err != nil {
		return err
	}
	for _, row := range t.Rows {
		line := []any{row.Group.String()}
		for _, v := range row.Values {
			if v.Valid() {
				line = append(line, float64(v))
			} else {
				line = append(line, nil)
			}
		}
		if err := w.writeRow(line...); err != nil {
			return err
		}
	}
	w.skip(1)
	return nil
}

func writeScatter(w *sheetWriter, r analysis.Result[*analysis.Relationship]) error {
	if !r.Available() {
		err := w.writeRow(r.Reason)
		w.skip(1)
		return err
	}
	rel := r.Data
	start := w.row
	if err := w.writeRow(rel.Title); err != nil {
		return err
	}
	if err := w.writeRow(rel.XLabel, rel.YLabel, rel.ColorLabel, rel.SizeLabel); err != nil {
		return err
	}
	first := w.row
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, p := range rel.Points {
		var size any
		if p.Size != nil {
			size = *p.Size
		}
		if err := w.writeRow(p.X, p.Y, p.Group, size); err != nil {
			return err
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
	}
	last := w.row - 1

	chartType := excelize.Scatter
	series := []excelize.ChartSeries{{
		Name:       rel.YLabel,
		Categories: w.ref(1, first, last),
		Values:     w.ref(2, first, last),
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
	}}
	if rel.SizeLabel != "" {
		// Sized points become a bubble chart, which cannot carry a trend line.
		chartType = excelize.Bubble
		series[0].Sizes = w.ref(4, first, last)
	} else if rel.Fit != nil {
		// Trend line endpoints go to columns E:F next to the points.
		fitRow := first
		for i, x := range []float64{minX, maxX} {
			if err := w.f.SetSheetRow(w.sheet, w.cell(5, fitRow+i), &[]any{x, rel.Fit.At(x)}); err != nil {
				return err
			}
		}
		series = append(series, excelize.ChartSeries{
			Name:       "OLS trend",
			Categories: w.ref(5, fitRow, fitRow+1),
			Values:     w.ref(6, fitRow, fitRow+1),
			Marker:     excelize.ChartMarker{Symbol: "none"},
		})
	}
	chart := &excelize.Chart{
		Type:      chartType,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: rel.Title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
	}
	if err := w.f.AddChart(w.sheet, w.cell(chartCol+1, start), chart); err != nil {
		return err
	}
	w.row = max(w.row, start+chartRows) + 1
	return nil
}

func writeSourcesSheet(w *sheetWriter, snap *fcreport.Snapshot) error {
	if err := w.writeRow("File", "Sheet", "Rows", "Columns", "Error"); err != nil {
		return err
	}
	for _, e := range snap.Sources {
		if err := w.writeRow(e.File, e.Sheet, e.Rows, strings.Join(e.Columns, ", "), e.Error); err != nil {
			return err
		}
	}
	w.skip(1)
	if err := w.writeRow("Field", "Detected", "Current", "Overridden"); err != nil {
		return err
	}
	for _, e := range snap.Mapping {
		if err := w.writeRow(e.Label, e.Detected, e.Column, e.Overridden); err != nil {
			return err
		}
	}
	return nil
}
