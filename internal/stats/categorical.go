package stats

import (
	"math"

	"github.com/beetlebugorg/zonal/internal/grid"
)

// metersPerDegree is the length of one degree of latitude. Longitude degrees
// shrink by cos(latitude); the difference between the polar and equatorial
// degree lengths (~0.6%) is below the accuracy of the binary coverage mask.
const metersPerDegree = 111320.0

// ClassAreas accumulates area per distinct pixel value for categorical
// rasters (land cover classes, soil types).
type ClassAreas struct {
	areas map[float64]float64
}

// NewClassAreas creates an empty categorical accumulator.
func NewClassAreas() *ClassAreas {
	return &ClassAreas{areas: make(map[float64]float64)}
}

// Add contributes area for one pixel of the given class value.
func (c *ClassAreas) Add(class, area float64) {
	c.areas[class] += area
}

// Areas returns the accumulated class to area mapping.
func (c *ClassAreas) Areas() map[float64]float64 {
	return c.areas
}

// Total returns the summed area across all classes.
func (c *ClassAreas) Total() float64 {
	total := 0.0
	for _, a := range c.areas {
		total += a
	}
	return total
}

// RowArea returns the area of one pixel in the given window row. For
// projected rasters this is the constant pixel area in squared map units.
// For geographic rasters (degree units) the longitudinal extent is corrected
// by the cosine of the row's center latitude and the result is in square
// meters.
func RowArea(transform grid.Affine, window grid.Window, row int, geographic bool) float64 {
	pw, ph := transform.PixelSize()
	if !geographic {
		return pw * ph
	}
	_, lat := transform.PixelToGeo(
		float64(window.Col)+float64(window.Width)/2,
		float64(window.Row+row)+0.5,
	)
	return pw * metersPerDegree * math.Cos(lat*math.Pi/180) * ph * metersPerDegree
}
