package fcreport

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/filter"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

// Session is one user's view of a set of workbooks: its mapping overrides and
// filter selection. Everything derived is recomputed on each Snapshot.
type Session struct {
	ID    string
	Paths []string

	cache     *Cache
	overrides schema.Overrides
	selection filter.Selection
}

// NewSession creates a session reading paths through cache.
func NewSession(cache *Cache, paths []string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Paths:     append([]string(nil), paths...),
		cache:     cache,
		overrides: make(schema.Overrides),
		selection: make(filter.Selection),
	}
}

// Table returns the unified table and load report.
func (s *Session) Table() (*models.Table, models.LoadReport, error) {
	return s.cache.Load(s.Paths)
}

// Reload drops cached tables and loads the workbooks again.
func (s *Session) Reload() error {
	s.cache.Invalidate()
	_, _, err := s.Table()
	return err
}

// SetOverride maps a field to a column, or to none. The column must exist in the table.
func (s *Session) SetOverride(f schema.Field, choice schema.Choice) error {
	if _, ok := schema.Lookup(f); !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownField, f)
	}
	if !choice.None {
		table, _, err := s.Table()
		if err != nil {
			return err
		}
		if err := (schema.Overrides{f: choice}).Validate(table.Columns); err != nil {
			return err
		}
	}
	s.remap(f, func() { s.overrides[f] = choice })
	return nil
}

// Configure installs startup overrides and filter selections.
func (s *Session) Configure(overrides schema.Overrides, sel filter.Selection) error {
	for f, choice := range overrides {
		if err := s.SetOverride(f, choice); err != nil {
			return err
		}
	}
	for dim, keys := range sel {
		for key := range keys {
			if err := s.Select(dim, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearOverride returns a field to auto-detection.
func (s *Session) ClearOverride(f schema.Field) {
	s.remap(f, func() { delete(s.overrides, f) })
}

// remap applies an override change. A filter dimension whose resolved column
// changes loses its selection, since the selected keys belong to the old column.
func (s *Session) remap(f schema.Field, apply func()) {
	if !filter.IsDimension(f) {
		apply()
		return
	}
	before := s.dimensionColumn(f)
	apply()
	if s.dimensionColumn(f) != before {
		s.selection.Clear(f)
	}
}

// dimensionColumn is the column a dimension currently filters on, or "".
func (s *Session) dimensionColumn(dim schema.Field) string {
	table, _, err := s.Table()
	if err != nil {
		return ""
	}
	col, _ := schema.Resolve(table, s.overrides).ColumnIn(table, dim)
	return col
}

// Overrides returns a copy of the session's overrides.
func (s *Session) Overrides() schema.Overrides {
	return s.overrides.Clone()
}

// Select adds a value key to a filter dimension.
func (s *Session) Select(dim schema.Field, key string) error {
	if !filter.IsDimension(dim) {
		return fmt.Errorf("%w: %q", filter.ErrUnknownDimension, dim)
	}
	s.selection.Add(dim, key)
	return nil
}

// Toggle flips a value key of a filter dimension.
func (s *Session) Toggle(dim schema.Field, key string) (bool, error) {
	if !filter.IsDimension(dim) {
		return false, fmt.Errorf("%w: %q", filter.ErrUnknownDimension, dim)
	}
	return s.selection.Toggle(dim, key), nil
}

// ClearFilter removes every selection of a dimension.
func (s *Session) ClearFilter(dim schema.Field) {
	s.selection.Clear(dim)
}

// Selection returns a copy of the filter selection.
func (s *Session) Selection() filter.Selection {
	return s.selection.Clone()
}

// Snapshot is the full derived state of a session at one point in time.
type Snapshot struct {
	SessionID string                    `json:"session_id"`
	Sources   models.LoadReport         `json:"sources"`
	Mapping   []schema.Entry            `json:"mapping"`
	Filters   []filter.Option           `json:"filters"`
	Selection map[schema.Field][]string `json:"selection,omitempty"`
	Dashboard *dashboard.Dashboard      `json:"dashboard"`

	Table    *models.Table   `json:"-"`
	View     *models.Table   `json:"-"`
	Resolved *schema.Mapping `json:"-"`
}

// Snapshot loads (or reuses) the table, resolves the mapping, applies the filters
// and builds the dashboard.
func (s *Session) Snapshot() (*Snapshot, error) {
	table, report, err := s.Table()
	if err != nil {
		return nil, err
	}

	mapping := schema.Resolve(table, s.overrides)
	view := filter.Apply(table, s.selection, mapping)

	snap := &Snapshot{
		SessionID: s.ID,
		Sources:   report,
		Mapping:   mapping.Entries(),
		Filters:   filter.Options(table, mapping),
		Dashboard: dashboard.Build(view, mapping),
		Table:     table,
		View:      view,
		Resolved:  mapping,
	}
	for _, dim := range filter.Dimensions {
		if s.selection.Active(dim) {
			if snap.Selection == nil {
				snap.Selection = make(map[schema.Field][]string)
			}
			snap.Selection[dim] = s.selection.Keys(dim)
		}
	}
	return snap, nil
}
