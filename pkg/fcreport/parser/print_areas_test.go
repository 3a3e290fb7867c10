package parser

import (
	"testing"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/xuri/excelize/v2"
)

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref   string
		sheet string
		areas []models.Region
	}{
		{"Sheet1!$A$1:$D$10", "Sheet1", []models.Region{{R1: 1, C1: 1, R2: 10, C2: 4}}},
		{"'My Sheet'!$B$2:$C$3", "My Sheet", []models.Region{{R1: 2, C1: 2, R2: 3, C2: 3}}},
		{"'O''Neil'!$A$1", "O'Neil", []models.Region{{R1: 1, C1: 1, R2: 1, C2: 1}}},
		{"Sheet1!$A$1:$B$2,Sheet1!$D$4:$E$5", "Sheet1", []models.Region{
			{R1: 1, C1: 1, R2: 2, C2: 2},
			{R1: 4, C1: 4, R2: 5, C2: 5},
		}},
		{"garbage", "", nil},
	}

	for _, tt := range tests {
		sheet, areas := parsePrintAreaReference(tt.ref)
		if sheet != tt.sheet {
			t.Errorf("parsePrintAreaReference(%q) sheet = %q, expected %q", tt.ref, sheet, tt.sheet)
		}
		if len(areas) != len(tt.areas) {
			t.Errorf("parsePrintAreaReference(%q) = %d areas, expected %d", tt.ref, len(areas), len(tt.areas))
			continue
		}
		for i := range areas {
			if areas[i] != tt.areas[i] {
				t.Errorf("parsePrintAreaReference(%q)[%d] = %+v, expected %+v", tt.ref, i, areas[i], tt.areas[i])
			}
		}
	}
}

func TestPrintAreas(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "Sheet1!$A$1:$C$5",
		Scope:    "Sheet1",
	}); err != nil {
		t.Fatalf("SetDefinedName failed: %v", err)
	}

	areas := PrintAreas(f)
	want := models.Region{R1: 1, C1: 1, R2: 5, C2: 3}
	if got, ok := areas["Sheet1"]; !ok || got != want {
		t.Errorf("Expected print area %+v, got %+v (present %v)", want, got, ok)
	}
}
