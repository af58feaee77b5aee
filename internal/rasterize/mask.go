// Package rasterize converts polygons into pixel coverage masks.
//
// Coverage uses the pixel-center-inside rule under even-odd winding: a pixel
// belongs to the polygon iff its center lies inside across all rings. The
// rule is applied identically for every polygon, so two polygons sharing a
// boundary edge partition the shared pixels with no overlap and no gap.
package rasterize

import (
	"github.com/beetlebugorg/zonal/internal/grid"
)

// Mask is a dense per-pixel inclusion mask over a window. Cells are stored
// row-major; dimensions always equal the window dimensions.
type Mask struct {
	Window grid.Window
	Cells  []bool
}

// NewMask creates an all-false mask over window.
func NewMask(window grid.Window) *Mask {
	return &Mask{
		Window: window,
		Cells:  make([]bool, window.Width*window.Height),
	}
}

// Get reports coverage at window-relative coordinates (x, y).
func (m *Mask) Get(x, y int) bool {
	return m.Cells[y*m.Window.Width+x]
}

// Count returns the number of covered pixels.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.Cells {
		if c {
			n++
		}
	}
	return n
}
