// Package store provides lazy, cached access to tiled raster data.
//
// A raster is stored as fixed-size blocks across one or more resolution
// levels (a pyramid). The store fetches only the blocks required to serve a
// pixel window, through a caller-injected BlockFetcher capability, and keeps
// recently used blocks in a bounded LRU cache.
package store

import (
	"fmt"

	"github.com/beetlebugorg/zonal/internal/grid"
)

// Level describes one resolution level of a raster pyramid. Scale is the
// pixel size multiplier relative to the base grid: the base level has scale 1,
// a typical half-resolution overview has scale 2.
type Level struct {
	Scale int
}

// Raster describes the tiled grid the store reads from. It is immutable after
// construction and safe for concurrent use.
type Raster struct {
	Width, Height int
	Bands         int
	BlockWidth    int
	BlockHeight   int
	Nodata        float64
	HasNodata     bool
	Transform     grid.Affine
	Levels        []Level
	Geographic    bool
}

// Validate checks structural invariants. Level 0 must be the base resolution
// and levels must be ordered finest to coarsest.
func (r *Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("raster dimensions %dx%d must be positive", r.Width, r.Height)
	}
	if r.Bands <= 0 {
		return fmt.Errorf("band count %d must be positive", r.Bands)
	}
	if r.BlockWidth <= 0 || r.BlockHeight <= 0 {
		return fmt.Errorf("block size %dx%d must be positive", r.BlockWidth, r.BlockHeight)
	}
	if len(r.Levels) == 0 {
		return fmt.Errorf("raster must declare at least one resolution level")
	}
	if r.Levels[0].Scale != 1 {
		return fmt.Errorf("level 0 must have scale 1, got %d", r.Levels[0].Scale)
	}
	for i := 1; i < len(r.Levels); i++ {
		if r.Levels[i].Scale <= r.Levels[i-1].Scale {
			return fmt.Errorf("levels must be ordered finest to coarsest, level %d scale %d after %d",
				i, r.Levels[i].Scale, r.Levels[i-1].Scale)
		}
	}
	return nil
}

// LevelSize returns the raster dimensions in pixels at the given level.
func (r *Raster) LevelSize(level int) (width, height int) {
	scale := r.Levels[level].Scale
	width = (r.Width + scale - 1) / scale
	height = (r.Height + scale - 1) / scale
	return width, height
}

// LevelTransform returns the affine transform at the given level.
func (r *Raster) LevelTransform(level int) grid.Affine {
	return r.Transform.AtScale(float64(r.Levels[level].Scale))
}

// SelectLevel picks the coarsest pyramid level whose pixel size does not
// exceed targetPixelSize, so statistics are never computed on data coarser
// than requested. A non-positive target, or a target finer than every level,
// selects the base resolution.
func (r *Raster) SelectLevel(targetPixelSize float64) int {
	if targetPixelSize <= 0 {
		return 0
	}
	base, _ := r.Transform.PixelSize()
	selected := 0
	for i, lv := range r.Levels {
		if base*float64(lv.Scale) <= targetPixelSize {
			selected = i
		}
	}
	return selected
}
