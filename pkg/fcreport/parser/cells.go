package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Sheet is a sheet read as a table: a header row and typed data rows.
type Sheet struct {
	// Name is the sheet name.
	Name string
	// Header lists the cleaned, unique column names.
	Header []string
	// Rows holds one value per header column for every non-empty data row.
	Rows [][]models.Value
	// Region is where the table was found on the sheet.
	Region models.Region
}

// SheetOptions configures how a sheet is read.
type SheetOptions struct {
	// Region holds the detection parameters.
	Region RegionParams
	// Clip restricts detection to a region, typically the sheet's print area.
	Clip *models.Region
}

// ExtractSheet reads a sheet as a table. The first row of the detected region is the header.
// A sheet with no non-empty cells yields an empty table.
func ExtractSheet(f *excelize.File, sheetName string, opts SheetOptions) (*Sheet, error) {
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{Name: sheetName}
	region, ok, err := DetectRegion(formatted, opts.Region, opts.Clip)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sheet, nil
	}
	sheet.Region = region

	width := region.C2 - region.C1 + 1
	headerCells := make([]string, width)
	for i := range headerCells {
		headerCells[i] = cellAt(formatted, region.R1-1, region.C1-1+i)
	}
	sheet.Header = cleanHeader(headerCells)

	for r := region.R1; r < region.R2; r++ {
		values := make([]models.Value, width)
		hasData := false
		for i := range values {
			c := region.C1 - 1 + i
			values[i] = parseCell(cellAt(raw, r, c), cellAt(formatted, r, c))
			if !values[i].IsNull() {
				hasData = true
			}
		}
		if hasData {
			sheet.Rows = append(sheet.Rows, values)
		}
	}

	return sheet, nil
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// cleanHeader normalizes header names, names blank headers "Unnamed: <index>"
// and suffixes duplicates with ".1", ".2", ...
func cleanHeader(cells []string) []string {
	out := make([]string, len(cells))
	used := make(map[string]bool)
	suffix := make(map[string]int)
	for i, cell := range cells {
		base := norm.NFKC.String(strings.TrimSpace(cell))
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// parseCell types a cell from its raw and formatted text.
// Numeric cells whose formatted text reads as a date become dates.
func parseCell(raw, formatted string) models.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Null()
	}
	v := parseValue(raw)
	if v.Kind == models.KindNumber && formatted != raw && looksLikeDate(formatted) {
		return models.Date(v.Num)
	}
	return v
}

// parseValue attempts to parse a string value as a number.
// Returns a number value, or the original string as text.
func parseValue(s string) models.Value {
	if s == "" {
		return models.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Number(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return models.Number(f)
	}
	return models.Text(s)
}

// dateLayouts are the renderings excelize produces for the built-in date formats.
var dateLayouts = []string{
	"01-02-06",
	"1-2-06",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2-Jan-06",
	"02-Jan-06",
	"Jan-06",
	"2-Jan",
	"1/2/06 15:04",
	"2006-01-02 15:04:05",
}

func looksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
