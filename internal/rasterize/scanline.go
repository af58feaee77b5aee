package rasterize

import (
	"math"
	"sort"

	"github.com/beetlebugorg/zonal/internal/grid"
)

// Point is a geographic coordinate pair.
type Point struct {
	X, Y float64
}

// Ring is a closed sequence of coordinates. The first and last point must be
// equal and a ring needs at least four points (a triangle plus the closing
// point).
type Ring []Point

// Polygon rasterizes rings onto the pixel grid described by transform,
// producing a coverage mask over window. The first ring is conventionally the
// outer boundary and subsequent rings are holes; under even-odd winding,
// additional disjoint outer rings union naturally, so multi-part polygons are
// rasterized by passing all parts' rings together.
//
// Rings are validated first; a degenerate or self-intersecting ring yields an
// ErrInvalidPolygon and no mask.
func Polygon(rings []Ring, transform grid.Affine, window grid.Window) (*Mask, error) {
	if err := validate(rings); err != nil {
		return nil, err
	}

	// Project every ring into fractional pixel space once.
	edges := make([]edge, 0, 64)
	for _, ring := range rings {
		prev := projectPoint(transform, ring[0])
		for i := 1; i < len(ring); i++ {
			cur := projectPoint(transform, ring[i])
			if prev.Y != cur.Y { // horizontal edges never cross a scanline
				edges = append(edges, edge{a: prev, b: cur})
			}
			prev = cur
		}
	}

	mask := NewMask(window)
	crossings := make([]float64, 0, 16)
	for y := 0; y < window.Height; y++ {
		centerY := float64(window.Row+y) + 0.5

		crossings = crossings[:0]
		for _, e := range edges {
			// Half-open span [min(y), max(y)): an edge endpoint exactly on
			// the scanline counts for the edge going down from it, never
			// both, which keeps crossing counts consistent at shared
			// vertices.
			if (e.a.Y > centerY) == (e.b.Y > centerY) {
				continue
			}
			x := e.a.X + (centerY-e.a.Y)*(e.b.X-e.a.X)/(e.b.Y-e.a.Y)
			crossings = append(crossings, x)
		}
		if len(crossings) < 2 {
			continue
		}
		sort.Float64s(crossings)

		// Even-odd: fill between alternating crossing pairs. A pixel center
		// at col+0.5 is inside the half-open span [x0, x1), which is what
		// makes two polygons sharing an edge partition the boundary pixels
		// exactly.
		for i := 0; i+1 < len(crossings); i += 2 {
			x0, x1 := crossings[i], crossings[i+1]
			first := int(math.Ceil(x0 - 0.5))
			last := int(math.Ceil(x1-0.5)) - 1
			if first < window.Col {
				first = window.Col
			}
			if last > window.Col+window.Width-1 {
				last = window.Col + window.Width - 1
			}
			for col := first; col <= last; col++ {
				mask.Cells[y*window.Width+(col-window.Col)] = true
			}
		}
	}
	return mask, nil
}

type edge struct {
	a, b Point // in fractional pixel coordinates
}

func projectPoint(transform grid.Affine, p Point) Point {
	col, row := transform.GeoToPixel(p.X, p.Y)
	return Point{X: col, Y: row}
}
