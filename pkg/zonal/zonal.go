package zonal

import (
	"context"
	"errors"

	"github.com/beetlebugorg/zonal/internal/engine"
	"github.com/beetlebugorg/zonal/internal/grid"
	"github.com/beetlebugorg/zonal/internal/rasterize"
	"github.com/beetlebugorg/zonal/internal/store"
)

// BlockFetcher retrieves one raster block from backing storage. It is the
// engine's only window on the outside world; implement it over HTTP range
// reads, object storage, a local file, or an in-memory grid in tests.
//
// FetchBlock must return one slice per band, each of length
// BlockWidth*BlockHeight in row-major order. Edge blocks are full-size;
// samples past the raster extent are ignored. Implementations must be safe
// for concurrent use.
type BlockFetcher interface {
	FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error)
}

// Engine computes zonal statistics over one dataset. Safe for concurrent use;
// runs sharing an engine share its block cache.
type Engine struct {
	inner  *engine.Engine
	access *store.Accessor
}

// New validates the dataset and configuration and builds an engine over
// fetcher. Invalid input returns a ConfigError.
func New(dataset *Dataset, fetcher BlockFetcher, cfg Config) (*Engine, error) {
	if dataset == nil {
		return nil, &ConfigError{Reason: "dataset is nil"}
	}
	if fetcher == nil {
		return nil, &ConfigError{Reason: "block fetcher is nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raster, err := dataset.toRaster()
	if err != nil {
		return nil, err
	}

	retry := store.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	access := store.NewAccessor(raster, fetcher, store.AccessorOptions{
		CacheBytes:   cfg.CacheBytes,
		Retry:        retry,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       cfg.Logger,
	})

	inner := engine.New(access, engine.Options{
		Statistics:       cfg.Statistics,
		TargetPixelSize:  cfg.TargetPixelSize,
		Categorical:      cfg.Categorical,
		NodataOverride:   cfg.NodataOverride,
		Concurrency:      cfg.Concurrency,
		MedianExactLimit: cfg.MedianExactLimit,
		Progress:         cfg.Progress,
		Logger:           cfg.Logger,
	})
	return &Engine{inner: inner, access: access}, nil
}

// Run computes statistics for every feature and returns one result per
// feature in input order. Individual feature failures are reported in their
// results; only cancellation aborts the run, returning a CancelledError and
// no results.
func (e *Engine) Run(ctx context.Context, features []Feature) ([]Result, *Summary, error) {
	converted := make([]engine.Feature, len(features))
	for i, f := range features {
		converted[i] = engine.Feature{ID: f.ID, Rings: convertRings(f.Rings)}
	}

	results, summary, err := e.inner.Run(ctx, converted)
	if err != nil {
		return nil, nil, &CancelledError{Err: err}
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			FeatureID:  r.FeatureID,
			Bands:      r.Bands,
			ClassAreas: r.ClassAreas,
			Err:        publicError(r.FeatureID, r.Err),
		}
	}
	return out, convertSummary(summary), nil
}

// CacheStats reports block cache occupancy.
func (e *Engine) CacheStats() CacheStats {
	s := e.access.CacheStats()
	return CacheStats{
		BlockCount: s.BlockCount,
		UsedMemory: s.UsedMemory,
		MaxMemory:  s.MaxMemory,
	}
}

// CacheStats describes block cache occupancy.
type CacheStats struct {
	BlockCount int
	UsedMemory int64
	MaxMemory  int64
}

func convertRings(rings []Ring) []rasterize.Ring {
	out := make([]rasterize.Ring, len(rings))
	for i, ring := range rings {
		pts := make(rasterize.Ring, len(ring))
		for j, c := range ring {
			pts[j] = rasterize.Point{X: c.X, Y: c.Y}
		}
		out[i] = pts
	}
	return out
}

func convertSummary(s *engine.Summary) *Summary {
	if s == nil {
		return nil
	}
	return &Summary{
		RunID:     s.RunID,
		Level:     s.Level,
		Total:     s.Total,
		Succeeded: s.Succeeded,
		Failed:    s.Failed,
		Failures:  s.Failures,
		Duration:  s.Duration,
	}
}

// publicError maps internal failure types onto the public taxonomy. Anything
// unrecognized on the data path is treated as a fetch failure.
func publicError(featureID string, err error) error {
	if err == nil {
		return nil
	}
	var oob *grid.ErrOutOfBounds
	if errors.As(err, &oob) {
		return &OutOfBoundsError{FeatureID: featureID, Err: err}
	}
	var poly *rasterize.ErrInvalidPolygon
	if errors.As(err, &poly) {
		return &GeometryError{FeatureID: featureID, Err: err}
	}
	return &FetchError{FeatureID: featureID, Err: err}
}
