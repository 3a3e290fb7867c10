package models

// Provenance column names stamped on every loaded row.
const (
	SourceFileColumn = "__source_file__"
	SheetColumn      = "__sheet__"
)

// Row is one data row with its provenance and cells keyed by column name.
type Row struct {
	// SourceFile is the workbook file name (no path).
	SourceFile string `json:"source_file"`
	// Sheet is the sheet name the row came from.
	Sheet string `json:"sheet"`
	// Cells maps column name to cell value.
	Cells map[string]Value `json:"cells"`
}

// Get returns the value of a column, reading provenance columns from the typed fields.
// Absent columns are null.
func (r Row) Get(column string) Value {
	switch column {
	case SourceFileColumn:
		return Text(r.SourceFile)
	case SheetColumn:
		return Text(r.Sheet)
	}
	return r.Cells[column]
}

// Table is an ordered set of rows sharing one column set.
type Table struct {
	// Columns lists every column in first-seen order, provenance columns last.
	Columns []string `json:"columns"`
	// Rows holds the data rows in load order.
	Rows []Row `json:"rows"`
}

// HasColumn reports whether the table has the given column.
func (t *Table) HasColumn(column string) bool {
	if t == nil || column == "" {
		return false
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// WithRows returns a table with the same columns and the given rows.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{Columns: t.Columns, Rows: rows}
}
