package models

// Region represents 1-based inclusive cell bounds of a table on a sheet.
type Region struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Intersect returns the overlap of two regions and whether it is non-empty.
func (r Region) Intersect(o Region) (Region, bool) {
	out := Region{
		R1: max(r.R1, o.R1),
		C1: max(r.C1, o.C1),
		R2: min(r.R2, o.R2),
		C2: min(r.C2, o.C2),
	}
	return out, out.R1 <= out.R2 && out.C1 <= out.C2
}
