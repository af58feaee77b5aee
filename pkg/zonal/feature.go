package zonal

// Coord is a geographic coordinate pair in the raster's coordinate reference
// system, [x, y] / [lon, lat] order.
type Coord struct {
	X, Y float64
}

// Ring is a closed coordinate sequence: at least four points with the first
// equal to the last.
type Ring []Coord

// Feature is one polygon to compute statistics for.
//
// The first ring is the outer boundary; subsequent rings are holes. For
// multi-part polygons, append each part's rings to the same slice; parts
// union under the even-odd rule. Features are read-only to the engine.
type Feature struct {
	// ID identifies the feature in results and the run summary.
	ID string

	// Rings holds the polygon's rings.
	Rings []Ring

	// Attributes carries opaque per-feature properties. The engine never
	// reads them; they ride along for the caller's benefit.
	Attributes map[string]Value
}

// Envelope returns the feature's bounding box.
func (f *Feature) Envelope() (minX, minY, maxX, maxY float64) {
	first := true
	for _, ring := range f.Rings {
		for _, c := range ring {
			if first {
				minX, minY, maxX, maxY = c.X, c.Y, c.X, c.Y
				first = false
				continue
			}
			if c.X < minX {
				minX = c.X
			}
			if c.Y < minY {
				minY = c.Y
			}
			if c.X > maxX {
				maxX = c.X
			}
			if c.Y > maxY {
				maxY = c.Y
			}
		}
	}
	return minX, minY, maxX, maxY
}
