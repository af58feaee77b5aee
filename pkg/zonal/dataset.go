package zonal

import (
	"github.com/beetlebugorg/zonal/internal/grid"
	"github.com/beetlebugorg/zonal/internal/store"
)

// Dataset describes a tiled raster pyramid. The engine reads nothing but this
// descriptor and the blocks your fetcher returns; how the raster is actually
// stored is entirely the fetcher's business.
type Dataset struct {
	// Width and Height are the base-resolution dimensions in pixels.
	Width, Height int

	// Bands is the number of sample bands per pixel.
	Bands int

	// BlockWidth and BlockHeight are the storage tile dimensions. Edge
	// blocks are still full-size; samples past the raster extent are
	// padding.
	BlockWidth, BlockHeight int

	// Transform maps pixel space to geographic space as GDAL-style affine
	// coefficients: x = t[0] + col*t[1] + row*t[2], y = t[3] + col*t[4] + row*t[5].
	Transform [6]float64

	// Levels lists the pyramid's pixel-size multipliers, finest first. The
	// base level is scale 1. Empty means a single base level.
	Levels []int

	// Nodata, when set, is the sentinel excluded from all statistics.
	Nodata *float64

	// DataType names the storage sample type ("uint8", "int16", "float32",
	// ...). Informational: fetchers deliver samples as float64 regardless.
	DataType string

	// CRS names the coordinate reference system, informational only.
	CRS string

	// Geographic marks the CRS as degree-based, enabling latitude-corrected
	// pixel areas in categorical mode.
	Geographic bool
}

// toRaster validates the dataset and converts it to the internal descriptor.
func (d *Dataset) toRaster() (*store.Raster, error) {
	transform, err := grid.NewAffine(d.Transform)
	if err != nil {
		return nil, &ConfigError{Reason: "geotransform is not invertible", Err: err}
	}

	scales := d.Levels
	if len(scales) == 0 {
		scales = []int{1}
	}
	levels := make([]store.Level, len(scales))
	for i, s := range scales {
		levels[i] = store.Level{Scale: s}
	}

	r := &store.Raster{
		Width:       d.Width,
		Height:      d.Height,
		Bands:       d.Bands,
		BlockWidth:  d.BlockWidth,
		BlockHeight: d.BlockHeight,
		Transform:   transform,
		Levels:      levels,
		Geographic:  d.Geographic,
	}
	if d.Nodata != nil {
		r.Nodata = *d.Nodata
		r.HasNodata = true
	}
	if err := r.Validate(); err != nil {
		return nil, &ConfigError{Reason: "invalid dataset", Err: err}
	}
	return r, nil
}
