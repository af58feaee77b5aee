package grid

import (
	"fmt"
)

// ErrNonInvertible indicates the geotransform cannot be inverted.
// This is a dataset construction failure, not a per-feature condition.
type ErrNonInvertible struct {
	Coefficients [6]float64
	Determinant  float64
}

func (e *ErrNonInvertible) Error() string {
	return fmt.Sprintf("non-invertible geotransform %v (determinant %g)",
		e.Coefficients, e.Determinant)
}

// ErrOutOfBounds indicates an envelope that does not intersect the raster
// extent at all.
type ErrOutOfBounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("envelope [%g %g %g %g] does not intersect raster extent",
		e.MinX, e.MinY, e.MaxX, e.MaxY)
}
