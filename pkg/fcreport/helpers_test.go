package fcreport

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a single-sheet workbook whose first row is the header.
func writeWorkbook(t *testing.T, dir, name string, rows ...[]any) string {
	t.Helper()
	return writeSheets(t, dir, name, testSheet{Name: "Sheet1", Rows: rows})
}

// testSheet is one worksheet of a test workbook.
type testSheet struct {
	Name string
	Rows [][]any
	// Cells sets extra cells by reference after the rows are written.
	Cells map[string]any
}

// writeSheets saves a workbook with the given sheets in order.
func writeSheets(t *testing.T, dir, name string, sheets ...testSheet) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				t.Fatalf("SetSheetName failed: %v", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			t.Fatalf("NewSheet failed: %v", err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName failed: %v", err)
			}
			if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow failed: %v", err)
			}
		}
		for ref, v := range sh.Cells {
			if err := f.SetCellValue(sh.Name, ref, v); err != nil {
				t.Fatalf("SetCellValue failed: %v", err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}
