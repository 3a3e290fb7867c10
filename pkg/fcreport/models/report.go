package models

// SourceEntry describes the outcome of loading one sheet, or one workbook when Sheet is empty.
type SourceEntry struct {
	// File is the workbook file name (no path).
	File string `json:"file"`
	// Sheet is the sheet name; empty for workbook-level failures.
	Sheet string `json:"sheet,omitempty"`
	// Rows is the number of data rows parsed.
	Rows int `json:"rows"`
	// Columns lists the header names parsed from the sheet.
	Columns []string `json:"columns,omitempty"`
	// Error is the failure message, if loading failed.
	Error string `json:"error,omitempty"`
}

// OK reports whether the entry describes a successfully parsed sheet.
func (e SourceEntry) OK() bool {
	return e.Error == "" && e.Sheet != ""
}

// LoadReport lists per-sheet and per-workbook load outcomes in load order.
type LoadReport []SourceEntry

// Parsed returns the number of sheets parsed successfully.
func (r LoadReport) Parsed() int {
	n := 0
	for _, e := range r {
		if e.OK() {
			n++
		}
	}
	return n
}
