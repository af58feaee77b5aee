package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/beetlebugorg/zonal/internal/grid"
)

// Accessor serves raster sample data for arbitrary pixel windows, fetching
// only the storage blocks required. Fetches go through a per-call timeout, an
// exponential backoff retry loop, and a circuit breaker that stops hammering
// a failing backend.
type Accessor struct {
	raster  *Raster
	fetcher BlockFetcher
	cache   *BlockCache
	policy  RetryPolicy
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[][]float64]
	log     zerolog.Logger
}

// AccessorOptions configures an Accessor.
type AccessorOptions struct {
	// CacheBytes is the block cache memory budget. 0 means unlimited.
	CacheBytes int64

	// Retry is the fetch retry policy. Zero value uses DefaultRetryPolicy.
	Retry RetryPolicy

	// FetchTimeout bounds each fetch attempt. 0 disables the per-call timeout.
	FetchTimeout time.Duration

	// Logger receives retry and breaker diagnostics. Nil logs nothing.
	Logger *zerolog.Logger
}

// NewAccessor creates an accessor over raster backed by fetcher.
func NewAccessor(raster *Raster, fetcher BlockFetcher, opts AccessorOptions) *Accessor {
	policy := opts.Retry
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	a := &Accessor{
		raster:  raster,
		fetcher: fetcher,
		cache:   NewBlockCache(opts.CacheBytes),
		policy:  policy,
		timeout: opts.FetchTimeout,
		log:     log,
	}
	a.breaker = gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
		Name:    "block-fetch",
		Timeout: 5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			a.log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("fetch circuit breaker state change")
		},
	})
	return a
}

// Raster returns the raster descriptor the accessor reads.
func (a *Accessor) Raster() *Raster {
	return a.raster
}

// CacheStats returns block cache occupancy.
func (a *Accessor) CacheStats() CacheStats {
	return a.cache.Stats()
}

// GetBlock returns the samples of one block, fetching it at most once per
// cache residency. Concurrent requests for the same uncached block share a
// single fetch.
func (a *Accessor) GetBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	key := blockKey{level: level, col: col, row: row}
	return a.cache.Get(key, func() ([][]float64, error) {
		return a.fetchWithRetry(ctx, key)
	})
}

func (a *Accessor) fetchWithRetry(ctx context.Context, key blockKey) ([][]float64, error) {
	var lastErr error
	for attempt := 1; attempt <= a.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		metricFetchAttempts.Inc()

		samples, err := a.fetchOnce(ctx, key)
		if err == nil {
			return samples, nil
		}
		lastErr = err

		// Cancellation is not retried; the run is being torn down.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < a.policy.MaxAttempts {
			metricFetchRetries.Inc()
			delay := a.policy.backoff(attempt)
			a.log.Debug().Stringer("block", key).Int("attempt", attempt).
				Dur("backoff", delay).Err(err).Msg("block fetch retry")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	metricFetchFailures.Inc()
	return nil, &ErrFetch{
		Level:    key.level,
		Col:      key.col,
		Row:      key.row,
		Attempts: a.policy.MaxAttempts,
		Err:      lastErr,
	}
}

func (a *Accessor) fetchOnce(ctx context.Context, key blockKey) ([][]float64, error) {
	fetchCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	samples, err := a.breaker.Execute(func() ([][]float64, error) {
		return a.fetcher.FetchBlock(fetchCtx, key.level, key.col, key.row)
	})
	if err != nil {
		return nil, err
	}
	metricFetchDuration.Observe(time.Since(start).Seconds())

	if err := a.validateBlock(samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func (a *Accessor) validateBlock(samples [][]float64) error {
	if len(samples) != a.raster.Bands {
		return fmt.Errorf("fetcher returned %d bands, raster has %d", len(samples), a.raster.Bands)
	}
	want := a.raster.BlockWidth * a.raster.BlockHeight
	for b, band := range samples {
		if len(band) != want {
			return fmt.Errorf("band %d has %d samples, block size is %d", b, len(band), want)
		}
	}
	return nil
}

// GetWindow stitches the blocks overlapping window at the given level into a
// band-major sample array of window.Width*window.Height values per band.
// Portions of the window outside the raster's valid extent are filled with
// the nodata sentinel (or zero when the raster declares none).
func (a *Accessor) GetWindow(ctx context.Context, window grid.Window, level int) ([][]float64, error) {
	pad := 0.0
	if a.raster.HasNodata {
		pad = a.raster.Nodata
	}

	out := make([][]float64, a.raster.Bands)
	for b := range out {
		band := make([]float64, window.Width*window.Height)
		if pad != 0 {
			for i := range band {
				band[i] = pad
			}
		}
		out[b] = band
	}

	levelW, levelH := a.raster.LevelSize(level)
	valid := window.Intersect(grid.Window{Col: 0, Row: 0, Width: levelW, Height: levelH})
	if valid.Empty() {
		return out, nil
	}

	bw, bh := a.raster.BlockWidth, a.raster.BlockHeight
	firstBlockCol := valid.Col / bw
	lastBlockCol := (valid.Col + valid.Width - 1) / bw
	firstBlockRow := valid.Row / bh
	lastBlockRow := (valid.Row + valid.Height - 1) / bh

	for brow := firstBlockRow; brow <= lastBlockRow; brow++ {
		for bcol := firstBlockCol; bcol <= lastBlockCol; bcol++ {
			samples, err := a.GetBlock(ctx, level, bcol, brow)
			if err != nil {
				return nil, err
			}
			blockWin := grid.Window{Col: bcol * bw, Row: brow * bh, Width: bw, Height: bh}
			overlap := blockWin.Intersect(valid)
			for b := range out {
				copyOverlap(out[b], window, samples[b], blockWin, overlap)
			}
		}
	}
	return out, nil
}

// copyOverlap copies the overlap region from a block's samples into the
// destination window's samples. Both arrays are row-major within their own
// windows.
func copyOverlap(dst []float64, dstWin grid.Window, src []float64, srcWin, overlap grid.Window) {
	for row := overlap.Row; row < overlap.Row+overlap.Height; row++ {
		srcOff := (row-srcWin.Row)*srcWin.Width + (overlap.Col - srcWin.Col)
		dstOff := (row-dstWin.Row)*dstWin.Width + (overlap.Col - dstWin.Col)
		copy(dst[dstOff:dstOff+overlap.Width], src[srcOff:srcOff+overlap.Width])
	}
}
