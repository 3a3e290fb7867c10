package analysis

import (
	"sort"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

// Metric is one aggregated column of a contribution table.
type Metric struct {
	Field schema.Field
	Label string
	Agg   Aggregator
}

// Standard contribution metrics.
var (
	AvgROI       = Metric{Field: schema.ROI, Label: "Avg ROI", Agg: Mean}
	TotalRevenue = Metric{Field: schema.Revenue, Label: "Total Revenue", Agg: Sum}
	TotalCOGS    = Metric{Field: schema.COGS, Label: "Total COGS", Agg: Sum}
)

// ContributionSpec requests a grouped table.
type ContributionSpec struct {
	Title   string
	GroupBy schema.Field
	Metrics []Metric
	// Plot optionally charts the groups of the finished table.
	Plot *GroupPlot
}

// GroupPlot requests a scatter of a contribution table's groups.
type GroupPlot struct {
	Title string
	// X lists metric labels in preference order. The first present one is the
	// x axis and also sizes the markers.
	X []string
	Y string
}

// ContributionRow is one group with one value per table column. Missing values are NaN.
type ContributionRow struct {
	Group  models.Value `json:"group"`
	Values []Float      `json:"values"`
}

// ContributionTable ranks groups by their financial contribution.
type ContributionTable struct {
	Title      string            `json:"title"`
	GroupLabel string            `json:"group_label"`
	Columns    []string          `json:"columns"`
	Rows       []ContributionRow `json:"rows"`
}

func (t *ContributionTable) column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Lookup returns the value of a column for a group key.
func (t *ContributionTable) Lookup(group, column string) (float64, bool) {
	ci := t.column(column)
	if ci < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.Group.Key() == group && r.Values[ci].Valid() {
			return float64(r.Values[ci]), true
		}
	}
	return 0, false
}

// Contribution groups the view by a field and aggregates each metric independently,
// ignoring nulls per column. Rows are sorted descending by the last metric,
// groups without that metric last. Unmapped metrics are skipped.
func Contribution(view *models.Table, m *schema.Mapping, spec ContributionSpec) Result[*ContributionTable] {
	gcol, ok := m.ColumnIn(view, spec.GroupBy)
	if !ok {
		return Unavailable[*ContributionTable]("%s: %s is not mapped", spec.Title, spec.GroupBy.Label())
	}

	type metricCol struct {
		Metric
		col string
	}
	var metrics []metricCol
	for _, mt := range spec.Metrics {
		if col, ok := m.ColumnIn(view, mt.Field); ok {
			metrics = append(metrics, metricCol{Metric: mt, col: col})
		}
	}
	if len(metrics) == 0 {
		return Unavailable[*ContributionTable]("%s: no metric columns mapped", spec.Title)
	}

	type group struct {
		key    models.Value
		values [][]float64
	}
	var order []*group
	groups := make(map[string]*group)
	for _, row := range view.Rows {
		gv := row.Get(gcol)
		if gv.IsNull() {
			continue
		}
		g, seen := groups[gv.Key()]
		if !seen {
			g = &group{key: gv, values: make([][]float64, len(metrics))}
		}
		contributed := false
		for i, mt := range metrics {
			if f, ok := numeric(row.Get(mt.col)); ok {
				g.values[i] = append(g.values[i], f)
				contributed = true
			}
		}
		if !seen && contributed {
			groups[gv.Key()] = g
			order = append(order, g)
		}
	}
	if len(order) == 0 {
		return Unavailable[*ContributionTable]("no rows for %s", spec.Title)
	}

	t := &ContributionTable{Title: spec.Title, GroupLabel: gcol}
	for _, mt := range metrics {
		t.Columns = append(t.Columns, mt.Label)
	}
	for _, g := range order {
		row := ContributionRow{Group: g.key, Values: make([]Float, len(metrics))}
		for i, mt := range metrics {
			row.Values[i] = NaN()
			if v, ok := mt.Agg.Apply(g.values[i]); ok {
				row.Values[i] = Float(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	last := len(metrics) - 1
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i].Values[last], t.Rows[j].Values[last]
		if !b.Valid() {
			return a.Valid()
		}
		return a.Valid() && a > b
	})
	return Ok(t)
}

// GroupScatter plots the groups of a contribution table, one point per group.
// Groups missing either metric are dropped.
func GroupScatter(r Result[*ContributionTable], plot GroupPlot) Result[*Relationship] {
	if !r.Available() {
		return Unavailable[*Relationship]("%s: %s", plot.Title, r.Reason)
	}
	t := r.Data
	xi := -1
	for _, label := range plot.X {
		if xi = t.column(label); xi >= 0 {
			break
		}
	}
	yi := t.column(plot.Y)
	if xi < 0 || yi < 0 {
		return Unavailable[*Relationship]("missing data for %s", plot.Title)
	}

	rel := &Relationship{
		Title:      plot.Title,
		XLabel:     t.Columns[xi],
		YLabel:     t.Columns[yi],
		ColorLabel: t.GroupLabel,
		SizeLabel:  t.Columns[xi],
	}
	for _, row := range t.Rows {
		x, y := row.Values[xi], row.Values[yi]
		if !x.Valid() || !y.Valid() {
			continue
		}
		size := float64(x)
		rel.Points = append(rel.Points, ScatterPoint{
			X:     float64(x),
			Y:     float64(y),
			Group: row.Group.String(),
			Size:  &size,
		})
	}
	if len(rel.Points) == 0 {
		return Unavailable[*Relationship]("no rows for %s", plot.Title)
	}
	return Ok(rel)
}
