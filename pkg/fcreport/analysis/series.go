package analysis

import (
	"sort"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
	"gonum.org/v1/gonum/stat"
)

// ChartKind is the suggested rendering of a series.
type ChartKind string

const (
	Line ChartKind = "line"
	Bar  ChartKind = "bar"
)

// Point is one (x, y) observation. Label is the display form of x.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Series is a y field plotted against round (or date), sorted by x.
type Series struct {
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Points []Point   `json:"points"`
}

// XAxis returns the trend axis column: round if present, otherwise date.
func XAxis(view *models.Table, m *schema.Mapping) (schema.Field, string, bool) {
	if col, ok := m.ColumnIn(view, schema.Round); ok {
		return schema.Round, col, true
	}
	if col, ok := m.ColumnIn(view, schema.Date); ok {
		return schema.Date, col, true
	}
	return "", "", false
}

// Trend plots a field by round. Rows where either value is not numeric are dropped.
func Trend(view *models.Table, m *schema.Mapping, title string, y schema.Field, kind ChartKind) Result[*Series] {
	_, xcol, ok := XAxis(view, m)
	if !ok {
		return Unavailable[*Series]("missing data for %s: no round or date column", title)
	}
	ycol, ok := m.ColumnIn(view, y)
	if !ok {
		return Unavailable[*Series]("missing data for %s: %s is not mapped", title, y.Label())
	}

	s := &Series{Title: title, Kind: kind, XLabel: xcol, YLabel: ycol}
	for _, row := range view.Rows {
		xv := row.Get(xcol)
		xf, xok := numeric(xv)
		yf, yok := numeric(row.Get(ycol))
		if !xok || !yok {
			continue
		}
		s.Points = append(s.Points, Point{X: xf, Y: yf, Label: xv.String()})
	}
	if len(s.Points) == 0 {
		return Unavailable[*Series]("no rows for %s", title)
	}
	sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].X < s.Points[j].X })
	return Ok(s)
}

// ScatterSpec requests a relationship plot.
type ScatterSpec struct {
	Title string
	X, Y  schema.Field
	// Color lists grouping fields; the first mapped one is used.
	Color []schema.Field
	// Size is an optional numeric field sizing the markers.
	Size schema.Field
}

// ScatterPoint is one observation of a relationship plot.
type ScatterPoint struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Group string   `json:"group,omitempty"`
	Size  *float64 `json:"size,omitempty"`
}

// Fit is an ordinary least squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	R2        Float   `json:"r2"`
}

// At evaluates the fitted line.
func (f Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Relationship is a scatter of two fields with an optional trend line.
type Relationship struct {
	Title      string         `json:"title"`
	XLabel     string         `json:"x_label"`
	YLabel     string         `json:"y_label"`
	ColorLabel string         `json:"color_label,omitempty"`
	SizeLabel  string         `json:"size_label,omitempty"`
	Points     []ScatterPoint `json:"points"`
	Fit        *Fit           `json:"fit,omitempty"`
}

// Scatter builds a relationship plot. Rows with a null in x, y or any supplied
// optional column are dropped.
func Scatter(view *models.Table, m *schema.Mapping, spec ScatterSpec) Result[*Relationship] {
	xcol, xok := m.ColumnIn(view, spec.X)
	ycol, yok := m.ColumnIn(view, spec.Y)
	if !xok || !yok {
		return Unavailable[*Relationship]("missing data for %s", spec.Title)
	}

	rel := &Relationship{Title: spec.Title, XLabel: xcol, YLabel: ycol}
	var ccol, scol string
	for _, f := range spec.Color {
		if col, ok := m.ColumnIn(view, f); ok {
			ccol = col
			break
		}
	}
	if spec.Size != "" {
		scol, _ = m.ColumnIn(view, spec.Size)
	}
	rel.ColorLabel, rel.SizeLabel = ccol, scol

	var xs, ys []float64
	for _, row := range view.Rows {
		x, ok := numeric(row.Get(xcol))
		if !ok {
			continue
		}
		y, ok := numeric(row.Get(ycol))
		if !ok {
			continue
		}
		p := ScatterPoint{X: x, Y: y}
		if ccol != "" {
			g := row.Get(ccol)
			if g.IsNull() {
				continue
			}
			p.Group = g.String()
		}
		if scol != "" {
			sz, ok := numeric(row.Get(scol))
			if !ok {
				continue
			}
			p.Size = &sz
		}
		rel.Points = append(rel.Points, p)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(rel.Points) == 0 {
		return Unavailable[*Relationship]("no rows for %s", spec.Title)
	}
	if len(xs) >= 2 && !constant(xs) {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		fit := &Fit{Intercept: alpha, Slope: beta, R2: NaN()}
		if !constant(ys) {
			fit.R2 = Float(stat.RSquared(xs, ys, nil, alpha, beta))
		}
		rel.Fit = fit
	}
	return Ok(rel)
}
