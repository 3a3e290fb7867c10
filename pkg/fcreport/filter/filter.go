// Package filter narrows a unified table by the values selected for each filter dimension.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

// ErrUnknownDimension indicates a field that cannot be filtered on.
var ErrUnknownDimension = errors.New("unknown filter dimension")

// Dimensions are the filterable fields, in display order.
var Dimensions = []schema.Field{
	schema.Round,
	schema.Product,
	schema.Customer,
	schema.Component,
	schema.Supplier,
}

// ParseDimension resolves a dimension name.
func ParseDimension(s string) (schema.Field, error) {
	f, err := schema.ParseField(s)
	if err == nil && IsDimension(f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// IsDimension reports whether the field is filterable.
func IsDimension(f schema.Field) bool {
	for _, d := range Dimensions {
		if d == f {
			return true
		}
	}
	return false
}

// Selection holds the selected value keys per dimension. An empty set selects everything.
type Selection map[schema.Field]map[string]bool

// Add selects a value key for a dimension.
func (s Selection) Add(dim schema.Field, key string) {
	if s[dim] == nil {
		s[dim] = make(map[string]bool)
	}
	s[dim][key] = true
}

// Toggle flips the selection of a value key and reports whether it is now selected.
func (s Selection) Toggle(dim schema.Field, key string) bool {
	if s[dim][key] {
		delete(s[dim], key)
		return false
	}
	s.Add(dim, key)
	return true
}

// Clear removes every selection of a dimension.
func (s Selection) Clear(dim schema.Field) {
	delete(s, dim)
}

// Active reports whether the dimension constrains rows.
func (s Selection) Active(dim schema.Field) bool {
	return len(s[dim]) > 0
}

// Keys returns the selected keys of a dimension, sorted.
func (s Selection) Keys(dim schema.Field) []string {
	out := make([]string, 0, len(s[dim]))
	for k := range s[dim] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for dim, keys := range s {
		for k := range keys {
			out.Add(dim, k)
		}
	}
	return out
}

func (s Selection) String() string {
	var parts []string
	for _, dim := range Dimensions {
		if s.Active(dim) {
			parts = append(parts, fmt.Sprintf("%s=%s", dim, strings.Join(s.Keys(dim), "|")))
		}
	}
	return strings.Join(parts, " ")
}

// Distinct returns the sorted distinct non-null values of a column.
func Distinct(t *models.Table, column string) []models.Value {
	if !t.HasColumn(column) {
		return nil
	}
	seen := make(map[string]bool)
	var out []models.Value
	for _, row := range t.Rows {
		v := row.Get(column)
		if v.IsNull() || seen[v.Key()] {
			continue
		}
		seen[v.Key()] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Option lists the values a dimension can be filtered by.
type Option struct {
	Dimension schema.Field   `json:"dimension"`
	Column    string         `json:"column"`
	Values    []models.Value `json:"values"`
}

// Options returns the filter options of every mapped dimension present in the table.
func Options(t *models.Table, m *schema.Mapping) []Option {
	var out []Option
	for _, dim := range Dimensions {
		col, ok := m.ColumnIn(t, dim)
		if !ok {
			continue
		}
		out = append(out, Option{Dimension: dim, Column: col, Values: Distinct(t, col)})
	}
	return out
}

// Apply keeps the rows whose value in every active, mapped dimension is selected.
// Inactive or unmapped dimensions impose no constraint; row order is preserved.
func Apply(t *models.Table, sel Selection, m *schema.Mapping) *models.Table {
	type constraint struct {
		column string
		keys   map[string]bool
	}
	var cs []constraint
	for _, dim := range Dimensions {
		if !sel.Active(dim) {
			continue
		}
		col, ok := m.ColumnIn(t, dim)
		if !ok {
			continue
		}
		cs = append(cs, constraint{column: col, keys: sel[dim]})
	}
	if len(cs) == 0 {
		return t.WithRows(t.Rows)
	}

	rows := make([]models.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		keep := true
		for _, c := range cs {
			v := row.Get(c.column)
			if v.IsNull() || !c.keys[v.Key()] {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}
