package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// table builds a table from column names and rows of cells; nil cells are null.
func table(columns []string, rows ...[]any) *models.Table {
	t := &models.Table{Columns: columns}
	for _, cells := range rows {
		r := models.Row{SourceFile: "a.xlsx", Sheet: "Sheet1", Cells: make(map[string]models.Value)}
		for i, c := range cells {
			switch v := c.(type) {
			case nil:
			case int:
				r.Cells[columns[i]] = models.Number(float64(v))
			case float64:
				r.Cells[columns[i]] = models.Number(v)
			case string:
				r.Cells[columns[i]] = models.Text(v)
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestBuildImpactMatrix(t *testing.T) {
	view := table([]string{"ROI", "Revenue", "Service Level"},
		[]any{0.1, 100, 0.9},
		[]any{0.2, 200, 0.8},
		[]any{0.3, 300, 0.7},
		[]any{nil, 400, 0.6},
	)
	m := schema.Resolve(view, nil)

	r := BuildImpactMatrix(view, m)
	if !r.Available() {
		t.Fatalf("Expected matrix, got %s", r.Reason)
	}
	mx := r.Data
	if len(mx.Fields) != 3 {
		t.Fatalf("Expected 3 fields, got %v", mx.Fields)
	}
	if mx.Fields[0] != schema.ROI || mx.Fields[1] != schema.Revenue || mx.Fields[2] != schema.ServiceLevel {
		t.Errorf("Unexpected field order %v", mx.Fields)
	}
	for i := range mx.Fields {
		if mx.At(i, i) != 1 {
			t.Errorf("Expected diagonal 1 at %d, got %v", i, mx.At(i, i))
		}
		for j := range mx.Fields {
			a, b := mx.At(i, j), mx.At(j, i)
			if a.Valid() != b.Valid() || (a.Valid() && a != b) {
				t.Errorf("Matrix not symmetric at (%d,%d): %v vs %v", i, j, a, b)
			}
			if a.Valid() && (a < -1 || a > 1) {
				t.Errorf("Correlation out of range at (%d,%d): %v", i, j, a)
			}
		}
	}
	if !almostEqual(float64(mx.At(0, 1)), 1) {
		t.Errorf("Expected ROI/Revenue correlation 1, got %v", mx.At(0, 1))
	}
	if !almostEqual(float64(mx.At(1, 2)), -1) {
		t.Errorf("Expected Revenue/Service Level correlation -1, got %v", mx.At(1, 2))
	}
}

func TestBuildImpactMatrixConstant(t *testing.T) {
	view := table([]string{"ROI", "Revenue"},
		[]any{0.1, 100},
		[]any{0.1, 200},
	)
	r := BuildImpactMatrix(view, schema.Resolve(view, nil))
	if !r.Available() {
		t.Fatalf("Expected matrix, got %s", r.Reason)
	}
	if r.Data.At(0, 1).Valid() {
		t.Errorf("Expected NaN for constant column, got %v", r.Data.At(0, 1))
	}
	if r.Data.At(0, 0).Valid() {
		t.Errorf("Expected NaN diagonal for constant column, got %v", r.Data.At(0, 0))
	}
	if r.Data.At(1, 1) != 1 {
		t.Errorf("Expected diagonal 1, got %v", r.Data.At(1, 1))
	}
}

func TestBuildImpactMatrixTooFewFields(t *testing.T) {
	view := table([]string{"ROI", "Customer"}, []any{0.1, "Acme"})
	r := BuildImpactMatrix(view, schema.Resolve(view, nil))
	if r.Available() {
		t.Error("Expected unavailable matrix with one KPI")
	}
}

func TestSummarize(t *testing.T) {
	view := table([]string{"ROI", "Revenue"},
		[]any{0.1, 100},
		[]any{nil, "1000"},
		[]any{nil, "1,000"},
		[]any{0.3, "n/a"},
	)
	m := schema.Resolve(view, nil)

	r := Summarize(view, m, schema.ROI, Mean)
	if !r.Available() || !almostEqual(r.Data, 0.2) {
		t.Errorf("Expected mean ROI 0.2, got %+v", r)
	}
	r = Summarize(view, m, schema.Revenue, Sum)
	if !r.Available() || r.Data != 1100 {
		t.Errorf("Expected total revenue 1100, got %+v", r)
	}
	if r := Summarize(view, m, schema.COGS, Sum); r.Available() {
		t.Errorf("Expected unmapped COGS to be unavailable, got %+v", r)
	}
	if r := Summarize(view.WithRows(nil), m, schema.ROI, Mean); r.Available() {
		t.Errorf("Expected empty view to be unavailable, got %+v", r)
	}
}

func TestContribution(t *testing.T) {
	view := table([]string{"Customer", "ROI", "Revenue"},
		[]any{"Acme", 10, nil},
		[]any{"Acme", 20, 100},
		[]any{"Bolt", nil, 500},
		[]any{"Core", 5, nil},
		[]any{nil, 99, 999},
	)
	m := schema.Resolve(view, nil)

	r := Contribution(view, m, ContributionSpec{
		Title:   "Customer contribution",
		GroupBy: schema.Customer,
		Metrics: []Metric{AvgROI, TotalRevenue},
	})
	if !r.Available() {
		t.Fatalf("Expected table, got %s", r.Reason)
	}
	ct := r.Data

	if v, ok := ct.Lookup("Acme", "Avg ROI"); !ok || v != 15 {
		t.Errorf("Expected Acme ROI 15, got %v (%v)", v, ok)
	}
	if v, ok := ct.Lookup("Acme", "Total Revenue"); !ok || v != 100 {
		t.Errorf("Expected Acme revenue 100, got %v (%v)", v, ok)
	}
	if _, ok := ct.Lookup("Bolt", "Avg ROI"); ok {
		t.Error("Expected Bolt ROI to be missing")
	}

	var groups []string
	for _, row := range ct.Rows {
		groups = append(groups, row.Group.Key())
	}
	if got := strings.Join(groups, ","); got != "Bolt,Acme,Core" {
		t.Errorf("Expected order Bolt,Acme,Core, got %s", got)
	}
}

func TestContributionUnmapped(t *testing.T) {
	view := table([]string{"ROI"}, []any{0.1})
	r := Contribution(view, schema.Resolve(view, nil), ContributionSpec{
		Title:   "Supplier contribution",
		GroupBy: schema.Supplier,
		Metrics: []Metric{AvgROI},
	})
	if r.Available() {
		t.Error("Expected unavailable table without supplier column")
	}
}

func TestTrend(t *testing.T) {
	view := table([]string{"Round", "ROI"},
		[]any{3, 0.3},
		[]any{1, 0.1},
		[]any{2, nil},
	)
	r := Trend(view, schema.Resolve(view, nil), "ROI by round", schema.ROI, Line)
	if !r.Available() {
		t.Fatalf("Expected series, got %s", r.Reason)
	}
	pts := r.Data.Points
	if len(pts) != 2 || pts[0].X != 1 || pts[1].X != 3 || pts[1].Y != 0.3 {
		t.Errorf("Unexpected points %+v", pts)
	}

	noRound := table([]string{"ROI"}, []any{0.1})
	if r := Trend(noRound, schema.Resolve(noRound, nil), "ROI by round", schema.ROI, Line); r.Available() {
		t.Error("Expected unavailable trend without round column")
	}
}

func TestTrendDateFallback(t *testing.T) {
	view := table([]string{"Round", "Report Date", "ROI"},
		[]any{2, nil, 0.2},
		[]any{1, nil, 0.1},
		[]any{3, nil, 0.3},
	)
	for i, serial := range []float64{45293, 45292, 0} {
		if serial > 0 {
			view.Rows[i].Cells["Report Date"] = models.Date(serial)
		}
	}

	tests := []struct {
		name      string
		overrides schema.Overrides
		xlabel    string
		labels    []string
	}{
		{"round mapped", nil, "Round", []string{"1", "2", "3"}},
		{"round unmapped", schema.Overrides{schema.Round: schema.NoColumn()}, "Report Date", []string{"2024-01-01", "2024-01-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Trend(view, schema.Resolve(view, tt.overrides), "ROI by round", schema.ROI, Line)
			if !r.Available() {
				t.Fatalf("Expected series, got %s", r.Reason)
			}
			if r.Data.XLabel != tt.xlabel {
				t.Errorf("Expected x axis %q, got %q", tt.xlabel, r.Data.XLabel)
			}
			var labels []string
			for _, p := range r.Data.Points {
				labels = append(labels, p.Label)
			}
			if strings.Join(labels, ",") != strings.Join(tt.labels, ",") {
				t.Errorf("Expected points %v, got %v", tt.labels, labels)
			}
		})
	}
}

func TestScatter(t *testing.T) {
	view := table([]string{"Service Level", "ROI", "Customer"},
		[]any{1, 3, "Acme"},
		[]any{2, 5, "Bolt"},
		[]any{3, 7, nil},
		[]any{4, nil, "Acme"},
	)
	m := schema.Resolve(view, nil)

	r := Scatter(view, m, ScatterSpec{Title: "Service vs ROI", X: schema.ServiceLevel, Y: schema.ROI})
	if !r.Available() {
		t.Fatalf("Expected relationship, got %s", r.Reason)
	}
	rel := r.Data
	if len(rel.Points) != 3 {
		t.Errorf("Expected 3 points, got %d", len(rel.Points))
	}
	if rel.Fit == nil {
		t.Fatal("Expected a fitted line")
	}
	if !almostEqual(rel.Fit.Slope, 2) || !almostEqual(rel.Fit.Intercept, 1) {
		t.Errorf("Expected y = 1 + 2x, got %+v", rel.Fit)
	}
	if !almostEqual(float64(rel.Fit.R2), 1) {
		t.Errorf("Expected R² 1, got %v", rel.Fit.R2)
	}

	r = Scatter(view, m, ScatterSpec{Title: "Service vs ROI", X: schema.ServiceLevel, Y: schema.ROI,
		Color: []schema.Field{schema.Customer}})
	if !r.Available() || len(r.Data.Points) != 2 {
		t.Errorf("Expected null groups to be dropped, got %+v", r)
	}
}

func TestScatterSize(t *testing.T) {
	view := table([]string{"Service Level", "ROI", "Revenue"},
		[]any{1, 3, 100},
		[]any{2, 5, nil},
		[]any{3, 7, "n/a"},
		[]any{4, 9, 400},
	)
	m := schema.Resolve(view, nil)

	r := Scatter(view, m, ScatterSpec{Title: "Service vs ROI", X: schema.ServiceLevel, Y: schema.ROI, Size: schema.Revenue})
	if !r.Available() {
		t.Fatalf("Expected relationship, got %s", r.Reason)
	}
	rel := r.Data
	if rel.SizeLabel != "Revenue" {
		t.Errorf("Expected size label Revenue, got %q", rel.SizeLabel)
	}
	if len(rel.Points) != 2 {
		t.Fatalf("Expected rows without a size to be dropped, got %d points", len(rel.Points))
	}
	for i, want := range []float64{100, 400} {
		if p := rel.Points[i]; p.Size == nil || *p.Size != want {
			t.Errorf("Point %d: expected size %v, got %v", i, want, p.Size)
		}
	}
}

func TestGroupScatter(t *testing.T) {
	view := table([]string{"Supplier", "ROI", "COGS", "Revenue"},
		[]any{"Fresco", 10, 300, 1000},
		[]any{"Fresco", 20, 100, 500},
		[]any{"Juicy", 5, nil, 200},
		[]any{"Sunny", nil, 50, 100},
	)
	m := schema.Resolve(view, nil)
	spec := ContributionSpec{
		Title:   "Supplier Impact Summary",
		GroupBy: schema.Supplier,
		Metrics: []Metric{AvgROI, TotalCOGS, TotalRevenue},
	}
	plot := GroupPlot{Title: "Suppliers: Financial Impact", X: []string{TotalCOGS.Label, TotalRevenue.Label}, Y: AvgROI.Label}

	r := GroupScatter(Contribution(view, m, spec), plot)
	if !r.Available() {
		t.Fatalf("Expected relationship, got %s", r.Reason)
	}
	rel := r.Data
	if rel.XLabel != "Total COGS" || rel.YLabel != "Avg ROI" || rel.SizeLabel != "Total COGS" || rel.ColorLabel != "Supplier" {
		t.Errorf("Unexpected labels %+v", rel)
	}
	if rel.Fit != nil {
		t.Errorf("Expected no trend line, got %+v", rel.Fit)
	}

	want := map[string][2]float64{"Fresco": {400, 15}}
	if len(rel.Points) != len(want) {
		t.Fatalf("Expected %d points, got %+v", len(want), rel.Points)
	}
	for _, p := range rel.Points {
		w, ok := want[p.Group]
		if !ok || p.X != w[0] || !almostEqual(p.Y, w[1]) || p.Size == nil || *p.Size != w[0] {
			t.Errorf("Unexpected point %+v", p)
		}
	}

	cogsless := table([]string{"Supplier", "ROI", "Revenue"}, []any{"Fresco", 10, 1000})
	r = GroupScatter(Contribution(cogsless, schema.Resolve(cogsless, nil), spec), plot)
	if !r.Available() || r.Data.XLabel != "Total Revenue" || r.Data.Points[0].X != 1000 {
		t.Errorf("Expected fallback to Total Revenue, got %+v", r)
	}

	r = GroupScatter(Unavailable[*ContributionTable]("supplier is not mapped"), plot)
	if r.Available() || !strings.Contains(r.Reason, "supplier is not mapped") {
		t.Errorf("Expected the table's reason to carry over, got %+v", r)
	}
}

func TestFloatJSON(t *testing.T) {
	data, err := json.Marshal([]Float{1.5, NaN(), Float(math.Inf(1))})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(data); got != "[1.5,null,null]" {
		t.Errorf("Expected [1.5,null,null], got %s", got)
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(Ok(0.0))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(data); got != `{"status":"ok","data":0}` {
		t.Errorf("Unexpected ok result %s", got)
	}

	data, err = json.Marshal(Unavailable[float64]("ROI is not mapped"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(data); got != `{"status":"unavailable","reason":"ROI is not mapped"}` {
		t.Errorf("Unexpected unavailable result %s", got)
	}
}
