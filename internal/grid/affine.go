package grid

import (
	"math"
)

// Affine is the linear mapping between pixel-grid coordinates and geographic
// coordinates for a raster. Coefficients follow the GDAL geotransform layout:
//
//	x = C0 + col*C1 + row*C2
//	y = C3 + col*C4 + row*C5
//
// For north-up rasters C2 and C4 are zero, C1 is the pixel width and C5 the
// (negative) pixel height.
type Affine struct {
	coef [6]float64
	inv  [6]float64
}

// NewAffine builds an affine transform from the six geotransform coefficients
// and precomputes its inverse. Returns ErrNonInvertible when the determinant
// is too close to zero for a stable inverse.
func NewAffine(coef [6]float64) (Affine, error) {
	det := coef[1]*coef[5] - coef[2]*coef[4]
	if math.Abs(det) < 1e-12 {
		return Affine{}, &ErrNonInvertible{Coefficients: coef, Determinant: det}
	}
	a := Affine{coef: coef}
	a.inv = [6]float64{
		(coef[2]*coef[3] - coef[0]*coef[5]) / det,
		coef[5] / det,
		-coef[2] / det,
		(coef[0]*coef[4] - coef[1]*coef[3]) / det,
		-coef[4] / det,
		coef[1] / det,
	}
	return a, nil
}

// Coefficients returns the forward geotransform coefficients.
func (a Affine) Coefficients() [6]float64 {
	return a.coef
}

// PixelSize returns the absolute pixel dimensions in geographic units.
func (a Affine) PixelSize() (width, height float64) {
	width = math.Hypot(a.coef[1], a.coef[4])
	height = math.Hypot(a.coef[2], a.coef[5])
	return width, height
}

// PixelToGeo maps fractional pixel coordinates to geographic coordinates.
// Integer (col, row) addresses the upper-left corner of that pixel; the pixel
// center is (col+0.5, row+0.5).
func (a Affine) PixelToGeo(col, row float64) (x, y float64) {
	x = a.coef[0] + col*a.coef[1] + row*a.coef[2]
	y = a.coef[3] + col*a.coef[4] + row*a.coef[5]
	return x, y
}

// GeoToPixel maps geographic coordinates to fractional pixel coordinates.
func (a Affine) GeoToPixel(x, y float64) (col, row float64) {
	col = a.inv[0] + x*a.inv[1] + y*a.inv[2]
	row = a.inv[3] + x*a.inv[4] + y*a.inv[5]
	return col, row
}

// AtScale derives the transform for a pyramid level whose pixels are scale
// times larger than the base grid. The raster origin is unchanged.
func (a Affine) AtScale(scale float64) Affine {
	coef := [6]float64{
		a.coef[0],
		a.coef[1] * scale,
		a.coef[2] * scale,
		a.coef[3],
		a.coef[4] * scale,
		a.coef[5] * scale,
	}
	// The base transform inverted, so the scaled one does too.
	scaled, _ := NewAffine(coef)
	return scaled
}
