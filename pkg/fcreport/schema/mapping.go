package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
)

// ErrUnknownColumn indicates an override naming a column the table does not have.
var ErrUnknownColumn = errors.New("unknown column")

// NoneOption is the override option that explicitly unmaps a field.
const NoneOption = "none"

// Choice is a human override for one field: a column, or explicitly none.
type Choice struct {
	Column string `json:"column,omitempty"`
	None   bool   `json:"none,omitempty"`
}

// UseColumn returns a choice mapping a field to column.
func UseColumn(column string) Choice { return Choice{Column: column} }

// NoColumn returns a choice explicitly leaving a field unmapped.
func NoColumn() Choice { return Choice{None: true} }

// ParseChoice reads "none" (or "-", "—") as NoColumn and anything else as a column name.
func ParseChoice(s string) Choice {
	switch strings.TrimSpace(s) {
	case NoneOption, "None", "NONE", "-", "—", "":
		return NoColumn()
	}
	return UseColumn(s)
}

func (c Choice) String() string {
	if c.None {
		return NoneOption
	}
	return c.Column
}

// Overrides holds human corrections. A field without an entry falls back to detection.
type Overrides map[Field]Choice

// Clone returns a copy of the overrides.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Validate checks every override names a known column.
func (o Overrides) Validate(columns []string) error {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	for f, c := range o {
		if !c.None && !known[c.Column] {
			return fmt.Errorf("%w %q for field %s", ErrUnknownColumn, c.Column, f)
		}
	}
	return nil
}

// Entry is one inspectable line of a mapping.
type Entry struct {
	Field      Field  `json:"field"`
	Label      string `json:"label"`
	Detected   string `json:"detected,omitempty"`
	Column     string `json:"column,omitempty"`
	Overridden bool   `json:"overridden,omitempty"`
}

// Mapping is the resolved correspondence from every field to a column or none.
type Mapping struct {
	columns    []string
	detected   map[Field]string
	current    map[Field]string
	overridden map[Field]bool
}

// Detect runs the column matcher for every field over the given columns.
// Provenance columns are never candidates.
func Detect(columns []string) map[Field]string {
	candidates := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == models.SourceFileColumn || c == models.SheetColumn {
			continue
		}
		candidates = append(candidates, c)
	}

	out := make(map[Field]string)
	for _, d := range definitions {
		if col, ok := Match(candidates, d.Field.Patterns()); ok {
			out[d.Field] = col
		}
	}
	return out
}

// Resolve builds the mapping for a table. An override always wins over detection.
func Resolve(table *models.Table, overrides Overrides) *Mapping {
	var columns []string
	if table != nil {
		columns = table.Columns
	}
	m := &Mapping{
		columns:    columns,
		detected:   Detect(columns),
		current:    make(map[Field]string),
		overridden: make(map[Field]bool),
	}
	for _, d := range definitions {
		if choice, ok := overrides[d.Field]; ok {
			m.overridden[d.Field] = true
			if !choice.None {
				m.current[d.Field] = choice.Column
			}
			continue
		}
		if col, ok := m.detected[d.Field]; ok {
			m.current[d.Field] = col
		}
	}
	return m
}

// Column returns the column a field maps to.
func (m *Mapping) Column(f Field) (string, bool) {
	if m == nil {
		return "", false
	}
	col, ok := m.current[f]
	return col, ok
}

// ColumnIn returns the column a field maps to when the table has it.
func (m *Mapping) ColumnIn(t *models.Table, f Field) (string, bool) {
	col, ok := m.Column(f)
	if !ok || !t.HasColumn(col) {
		return "", false
	}
	return col, true
}

// Detected returns the auto-detected column of a field, ignoring overrides.
func (m *Mapping) Detected(f Field) (string, bool) {
	if m == nil {
		return "", false
	}
	col, ok := m.detected[f]
	return col, ok
}

// Overridden reports whether the field's column came from an override.
func (m *Mapping) Overridden(f Field) bool {
	return m != nil && m.overridden[f]
}

// Value reads a field from a row through the mapping. ok is false when the field is unmapped.
func (m *Mapping) Value(row models.Row, f Field) (models.Value, bool) {
	col, ok := m.Column(f)
	if !ok {
		return models.Null(), false
	}
	return row.Get(col), true
}

// Entries lists every field with its detected and current column.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(definitions))
	for _, d := range definitions {
		e := Entry{Field: d.Field, Label: d.Label}
		e.Detected, _ = m.Detected(d.Field)
		e.Column, _ = m.Column(d.Field)
		e.Overridden = m.Overridden(d.Field)
		out = append(out, e)
	}
	return out
}

// Options lists every legal override value: NoneOption followed by the table's columns.
func (m *Mapping) Options() []string {
	out := []string{NoneOption}
	if m != nil {
		out = append(out, m.columns...)
	}
	return out
}

// MarshalJSON renders the current mapping as field -> column or null.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	out := make(map[Field]*string, len(definitions))
	for _, d := range definitions {
		if col, ok := m.Column(d.Field); ok {
			out[d.Field] = &col
		} else {
			out[d.Field] = nil
		}
	}
	return json.Marshal(out)
}
