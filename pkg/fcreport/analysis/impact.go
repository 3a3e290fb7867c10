package analysis

import (
	"math"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a labelled pairwise correlation matrix.
type Matrix struct {
	Fields  []schema.Field `json:"fields"`
	Labels  []string       `json:"labels"`
	Columns []string       `json:"columns"`
	Values  [][]Float      `json:"values"`
}

// At returns the correlation between fields i and j.
func (mx *Matrix) At(i, j int) Float {
	return mx.Values[i][j]
}

// BuildImpactMatrix correlates every mapped KPI field present in the view.
// Each cell uses only the rows where both fields are numeric. Fewer than two
// fields is unavailable; zero-variance pairs are NaN.
func BuildImpactMatrix(view *models.Table, m *schema.Mapping) Result[*Matrix] {
	mx := &Matrix{}
	for _, f := range schema.KPIFields() {
		col, ok := m.ColumnIn(view, f)
		if !ok {
			continue
		}
		mx.Fields = append(mx.Fields, f)
		mx.Labels = append(mx.Labels, f.Label())
		mx.Columns = append(mx.Columns, col)
	}
	n := len(mx.Fields)
	if n < 2 {
		return Unavailable[*Matrix]("need at least two mapped KPI columns, have %d", n)
	}

	cells := make([][]float64, n)
	valid := make([][]bool, n)
	for i, col := range mx.Columns {
		cells[i] = make([]float64, len(view.Rows))
		valid[i] = make([]bool, len(view.Rows))
		for r, row := range view.Rows {
			cells[i][r], valid[i][r] = numeric(row.Get(col))
		}
	}

	mx.Values = make([][]Float, n)
	for i := range mx.Values {
		mx.Values[i] = make([]Float, n)
	}
	for i := 0; i < n; i++ {
		mx.Values[i][i] = selfCorrelation(cells[i], valid[i])
		for j := i + 1; j < n; j++ {
			r := pairwise(cells[i], valid[i], cells[j], valid[j])
			mx.Values[i][j] = r
			mx.Values[j][i] = r
		}
	}
	return Ok(mx)
}

func pairwise(x []float64, xok []bool, y []float64, yok []bool) Float {
	var xs, ys []float64
	for r := range x {
		if xok[r] && yok[r] {
			xs = append(xs, x[r])
			ys = append(ys, y[r])
		}
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return NaN()
	}
	return Float(math.Max(-1, math.Min(1, r)))
}

func selfCorrelation(x []float64, ok []bool) Float {
	var xs []float64
	for r := range x {
		if ok[r] {
			xs = append(xs, x[r])
		}
	}
	if len(xs) < 2 || constant(xs) {
		return NaN()
	}
	return 1
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
