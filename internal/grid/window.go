package grid

import (
	"math"
)

// Window addresses a rectangular region of a raster in whole pixels.
// Col/Row are the offsets of the upper-left pixel.
type Window struct {
	Col, Row      int
	Width, Height int
}

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// Contains reports whether the pixel (col, row) lies inside the window.
func (w Window) Contains(col, row int) bool {
	return col >= w.Col && col < w.Col+w.Width &&
		row >= w.Row && row < w.Row+w.Height
}

// Intersect returns the overlap of two windows. The result may be empty.
func (w Window) Intersect(o Window) Window {
	col := max(w.Col, o.Col)
	row := max(w.Row, o.Row)
	right := min(w.Col+w.Width, o.Col+o.Width)
	bottom := min(w.Row+w.Height, o.Row+o.Height)
	return Window{Col: col, Row: row, Width: right - col, Height: bottom - row}
}

// AtScale converts a base-resolution window to a coarser pyramid level.
// The result covers at least the same geographic region.
func (w Window) AtScale(scale int) Window {
	if scale <= 1 {
		return w
	}
	col := floorDiv(w.Col, scale)
	row := floorDiv(w.Row, scale)
	right := ceilDiv(w.Col+w.Width, scale)
	bottom := ceilDiv(w.Row+w.Height, scale)
	return Window{Col: col, Row: row, Width: right - col, Height: bottom - row}
}

// WindowForEnvelope computes the smallest pixel window covering a geographic
// envelope, clamped to the raster extent (width x height pixels). Returns
// ErrOutOfBounds when the envelope lies entirely outside the raster.
//
// All four envelope corners are projected so rotated geotransforms are handled
// correctly.
func WindowForEnvelope(a Affine, width, height int, minX, minY, maxX, maxY float64) (Window, error) {
	minCol, minRow := math.Inf(1), math.Inf(1)
	maxCol, maxRow := math.Inf(-1), math.Inf(-1)
	for _, corner := range [4][2]float64{
		{minX, minY}, {minX, maxY}, {maxX, minY}, {maxX, maxY},
	} {
		col, row := a.GeoToPixel(corner[0], corner[1])
		minCol = math.Min(minCol, col)
		minRow = math.Min(minRow, row)
		maxCol = math.Max(maxCol, col)
		maxRow = math.Max(maxRow, row)
	}

	col0 := int(math.Floor(minCol))
	row0 := int(math.Floor(minRow))
	col1 := int(math.Ceil(maxCol))
	row1 := int(math.Ceil(maxRow))

	clamped := Window{Col: col0, Row: row0, Width: col1 - col0, Height: row1 - row0}.
		Intersect(Window{Col: 0, Row: 0, Width: width, Height: height})
	if clamped.Empty() {
		return Window{}, &ErrOutOfBounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return clamped, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
