package grid

import (
	"errors"
	"math"
	"testing"
)

// northUp returns a typical north-up transform: origin (100, 50), 0.5 degree
// pixels.
func northUp(t *testing.T) Affine {
	t.Helper()
	a, err := NewAffine([6]float64{100, 0.5, 0, 50, 0, -0.5})
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	return a
}

func TestAffineRoundTrip(t *testing.T) {
	a := northUp(t)

	tests := []struct {
		col, row float64
	}{
		{0, 0},
		{10, 20},
		{0.5, 0.5},
		{1023.25, 511.75},
	}
	for _, tt := range tests {
		x, y := a.PixelToGeo(tt.col, tt.row)
		col, row := a.GeoToPixel(x, y)
		if math.Abs(col-tt.col) > 1e-9 || math.Abs(row-tt.row) > 1e-9 {
			t.Errorf("round trip (%g,%g) -> (%g,%g) -> (%g,%g)",
				tt.col, tt.row, x, y, col, row)
		}
	}
}

func TestAffineOrigin(t *testing.T) {
	a := northUp(t)

	x, y := a.PixelToGeo(0, 0)
	if x != 100 || y != 50 {
		t.Errorf("Expected origin (100, 50), got (%g, %g)", x, y)
	}

	// Center of pixel (2, 3)
	x, y = a.PixelToGeo(2.5, 3.5)
	if x != 101.25 || y != 48.25 {
		t.Errorf("Expected pixel center (101.25, 48.25), got (%g, %g)", x, y)
	}
}

func TestAffineRotatedRoundTrip(t *testing.T) {
	a, err := NewAffine([6]float64{10, 0.3, 0.1, 20, -0.1, -0.3})
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	x, y := a.PixelToGeo(7, 11)
	col, row := a.GeoToPixel(x, y)
	if math.Abs(col-7) > 1e-9 || math.Abs(row-11) > 1e-9 {
		t.Errorf("Rotated round trip gave (%g, %g), want (7, 11)", col, row)
	}
}

func TestAffineNonInvertible(t *testing.T) {
	// Zero determinant: second row is a multiple of the first.
	_, err := NewAffine([6]float64{0, 1, 2, 0, 2, 4})
	if err == nil {
		t.Fatal("Expected error for singular transform, got nil")
	}
	var nonInv *ErrNonInvertible
	if !errors.As(err, &nonInv) {
		t.Errorf("Expected ErrNonInvertible, got %T", err)
	}
}

func TestAffineAtScale(t *testing.T) {
	a := northUp(t)
	coarse := a.AtScale(4)

	w, h := coarse.PixelSize()
	if w != 2.0 || h != 2.0 {
		t.Errorf("Expected 2x2 degree pixels at scale 4, got %gx%g", w, h)
	}

	// Same origin, coarser grid: base pixel (4, 4) is coarse pixel (1, 1).
	x, y := coarse.PixelToGeo(1, 1)
	bx, by := a.PixelToGeo(4, 4)
	if x != bx || y != by {
		t.Errorf("Scaled origin mismatch: (%g, %g) != (%g, %g)", x, y, bx, by)
	}
}

func TestPixelSize(t *testing.T) {
	a := northUp(t)
	w, h := a.PixelSize()
	if w != 0.5 || h != 0.5 {
		t.Errorf("Expected pixel size 0.5x0.5, got %gx%g", w, h)
	}
}
