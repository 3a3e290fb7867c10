package parser

import (
	"errors"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
)

// ErrNoTable indicates a sheet has cells but nothing dense enough to read as a table.
var ErrNoTable = errors.New("no table region detected")

// RegionParams holds parameters for table region detection.
type RegionParams struct {
	// DensityMin rejects regions whose share of non-empty cells is below it.
	// Zero accepts any region, so a stray note far from the table is kept as extra cells.
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultRegionParams returns default region detection parameters.
func DefaultRegionParams() RegionParams {
	return RegionParams{
		DensityMin:       0,
		MinNonemptyCells: 1,
	}
}

// DetectRegion finds the table region of a sheet: the bounding box of non-empty cells,
// clipped to clip when given. ok is false for sheets without any non-empty cell.
func DetectRegion(rows [][]string, params RegionParams, clip *models.Region) (region models.Region, ok bool, err error) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.Region{}, false, nil
	}
	region = models.Region{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}

	if clip != nil {
		clipped, overlap := region.Intersect(*clip)
		if !overlap {
			return models.Region{}, false, nil
		}
		region = clipped
		// Re-tighten to the data inside the clip.
		sub := subGrid(rows, region)
		r1, r2, c1, c2 := findDataBounds(sub)
		if r1 < 0 {
			return models.Region{}, false, nil
		}
		region = models.Region{
			R1: region.R1 + r1, C1: region.C1 + c1,
			R2: region.R1 + r2, C2: region.C1 + c2,
		}
	}

	total := (region.R2 - region.R1 + 1) * (region.C2 - region.C1 + 1)
	nonEmpty := countNonEmptyCells(rows, region.R1-1, region.R2-1, region.C1-1, region.C2-1)
	if nonEmpty < params.MinNonemptyCells {
		return models.Region{}, false, nil
	}
	if params.DensityMin > 0 && float64(nonEmpty)/float64(total) < params.DensityMin {
		return region, false, ErrNoTable
	}
	return region, true, nil
}

// subGrid copies the cells of rows inside region into a zero-based grid.
func subGrid(rows [][]string, region models.Region) [][]string {
	var out [][]string
	for r := region.R1 - 1; r <= region.R2-1 && r < len(rows); r++ {
		row := rows[r]
		var line []string
		for c := region.C1 - 1; c <= region.C2-1; c++ {
			if c < len(row) {
				line = append(line, row[c])
			} else {
				line = append(line, "")
			}
		}
		out = append(out, line)
	}
	return out
}

// findDataBounds finds the zero-based bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within zero-based bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
