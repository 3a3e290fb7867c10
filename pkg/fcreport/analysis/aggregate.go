package analysis

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
	"gonum.org/v1/gonum/stat"
)

// Aggregator reduces a column to one number.
type Aggregator string

const (
	Mean Aggregator = "mean"
	Sum  Aggregator = "sum"
)

// Apply aggregates values. ok is false when there is nothing to aggregate.
func (a Aggregator) Apply(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	switch a {
	case Sum:
		total := decimal.Zero
		for _, v := range values {
			total = total.Add(decimal.NewFromFloat(v))
		}
		f, _ := total.Float64()
		return f, true
	default:
		return stat.Mean(values, nil), true
	}
}

// numeric coerces a cell to a finite number.
func numeric(v models.Value) (float64, bool) {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// column returns the non-null numeric values of a column.
func column(view *models.Table, col string) []float64 {
	var out []float64
	for _, row := range view.Rows {
		if f, ok := numeric(row.Get(col)); ok {
			out = append(out, f)
		}
	}
	return out
}

// Summarize aggregates a field over the view. Unmapped fields and fields without a
// single numeric value are unavailable, never zero.
func Summarize(view *models.Table, m *schema.Mapping, f schema.Field, agg Aggregator) Result[float64] {
	col, ok := m.ColumnIn(view, f)
	if !ok {
		return Unavailable[float64]("%s is not mapped", f.Label())
	}
	v, ok := agg.Apply(column(view, col))
	if !ok {
		return Unavailable[float64]("no numeric values in %q", col)
	}
	return Ok(v)
}

// Caption renders an aggregator hint for display.
func (a Aggregator) Caption() string {
	switch a {
	case Sum:
		return "Total"
	case Mean:
		return "Average"
	}
	return string(a)
}
