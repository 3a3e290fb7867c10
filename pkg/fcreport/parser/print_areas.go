package parser

import (
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/xuri/excelize/v2"
)

// PrintAreas returns the print area of every sheet that defines one.
// Sheets with several areas get the bounding box of all of them.
func PrintAreas(f *excelize.File) map[string]models.Region {
	result := make(map[string]models.Region)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" && dn.Scope != "" && dn.Scope != "Workbook" {
			sheetName = dn.Scope
		}
		if sheetName == "" || len(areas) == 0 {
			continue
		}
		bounds := areas[0]
		for _, a := range areas[1:] {
			bounds.R1 = min(bounds.R1, a.R1)
			bounds.C1 = min(bounds.C1, a.C1)
			bounds.R2 = max(bounds.R2, a.R2)
			bounds.C2 = max(bounds.C2, a.C2)
		}
		result[sheetName] = bounds
	}

	return result
}

// parsePrintAreaReference parses 'Sheet Name'!$A$1:$D$10,'Sheet Name'!$F$1:$G$4.
func parsePrintAreaReference(ref string) (string, []models.Region) {
	var areas []models.Region
	var sheetName string

	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		if sheetName == "" {
			sheetName = strings.ReplaceAll(strings.Trim(part[:idx], "'"), "''", "'")
		}
		if area, ok := parseRange(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}

	return sheetName, areas
}

// parseRange parses $A$1:$D$10 (or a single cell) into a region.
func parseRange(rangeStr string) (models.Region, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")
	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return models.Region{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.Region{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.Region{}, false
	}

	return models.Region{
		R1: min(startRow, endRow),
		C1: min(startCol, endCol),
		R2: max(startRow, endRow),
		C2: max(startCol, endCol),
	}, true
}
