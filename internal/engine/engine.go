// Package engine drives the per-feature zonal-statistics pipeline: window
// computation, raster window fetch, rasterization, and aggregation, under a
// bounded worker pool with per-feature failure isolation.
package engine

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beetlebugorg/zonal/internal/grid"
	"github.com/beetlebugorg/zonal/internal/index"
	"github.com/beetlebugorg/zonal/internal/rasterize"
	"github.com/beetlebugorg/zonal/internal/stats"
	"github.com/beetlebugorg/zonal/internal/store"
)

// Feature is a polygon to compute statistics for. The first ring is the
// outer boundary, subsequent rings are holes; disjoint parts of a multi-part
// polygon contribute their rings to the same slice.
type Feature struct {
	ID    string
	Rings []rasterize.Ring
}

// Options configures a run. Validation happens in the public API layer; the
// engine assumes recognized statistic names.
type Options struct {
	// Statistics to compute per band. Empty means all supported.
	Statistics []string

	// TargetPixelSize selects the pyramid level. 0 uses the base resolution.
	TargetPixelSize float64

	// Categorical switches to area-by-class accumulation.
	Categorical bool

	// NodataOverride supersedes the raster's declared nodata sentinel.
	NodataOverride *float64

	// Concurrency bounds the worker pool. 0 defaults to runtime.NumCPU().
	Concurrency int

	// MedianExactLimit caps the exact-median buffer per band.
	MedianExactLimit int

	// Progress, when set, is called after each feature completes with
	// (done, total).
	Progress func(done, total int)

	// Logger receives per-feature failure diagnostics. Nil logs nothing.
	Logger *zerolog.Logger
}

// Result holds the outcome for one feature. Exactly one of Bands,
// ClassAreas, or Err is meaningful: Err is set for failed features, Bands
// for statistics mode, ClassAreas for categorical mode.
type Result struct {
	FeatureID  string
	State      State
	Bands      []map[string]float64
	ClassAreas map[float64]float64
	Err        error
}

// Summary is the run-level accounting: every feature ends up counted as
// succeeded or failed, never silently dropped.
type Summary struct {
	RunID     string
	Level     int
	Total     int
	Succeeded int
	Failed    int
	Failures  map[string]string
	Duration  time.Duration
}

// Engine owns the run-level state: the raster accessor shared by all workers
// and the run options.
type Engine struct {
	accessor *store.Accessor
	raster   *store.Raster
	opts     Options
	log      zerolog.Logger
}

// New creates an engine over an accessor.
func New(accessor *store.Accessor, opts Options) *Engine {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Engine{
		accessor: accessor,
		raster:   accessor.Raster(),
		opts:     opts,
		log:      log,
	}
}

// AllStatistics lists the supported per-band statistic names.
var AllStatistics = []string{"min", "max", "mean", "median", "sum", "count", "stddev"}

// Run processes all features and returns one result per feature in input
// order, regardless of completion order. A cancelled run returns the context
// error and no results.
func (e *Engine) Run(ctx context.Context, features []Feature) ([]Result, *Summary, error) {
	start := time.Now()
	level := e.raster.SelectLevel(e.opts.TargetPixelSize)
	transform := e.raster.LevelTransform(level)
	levelW, levelH := e.raster.LevelSize(level)

	run := &runState{
		engine:    e,
		level:     level,
		transform: transform,
		levelW:    levelW,
		levelH:    levelH,
		features:  features,
		nodata:    e.effectiveNodata(),
	}

	results := make([]Result, len(features))
	if len(features) == 0 {
		return results, e.summarize(results, level, start), nil
	}

	order := run.scheduleOrder()

	workers := e.opts.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(features) {
		workers = len(features)
	}

	type indexed struct {
		pos    int
		result Result
	}
	jobs := make(chan int, len(order))
	out := make(chan indexed, len(order))

	var done int
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				if ctx.Err() != nil {
					return
				}
				out <- indexed{pos: pos, result: run.processFeature(ctx, pos)}
			}
		}()
	}
	for _, pos := range order {
		jobs <- pos
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(out)
	}()

	for item := range out {
		results[item.pos] = item.result
		done++
		if e.opts.Progress != nil {
			e.opts.Progress(done, len(features))
		}
	}

	// A cancelled run discards everything already computed; the caller gets
	// no partial result set.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return results, e.summarize(results, level, start), nil
}

func (e *Engine) effectiveNodata() *float64 {
	if e.opts.NodataOverride != nil {
		return e.opts.NodataOverride
	}
	if e.raster.HasNodata {
		nodata := e.raster.Nodata
		return &nodata
	}
	return nil
}

func (e *Engine) summarize(results []Result, level int, start time.Time) *Summary {
	s := &Summary{
		RunID:    uuid.New().String(),
		Level:    level,
		Total:    len(results),
		Failures: make(map[string]string),
	}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			s.Failures[r.FeatureID] = r.Err.Error()
		} else {
			s.Succeeded++
		}
	}
	s.Duration = time.Since(start)
	return s
}

// runState is the per-run immutable context shared by workers. All mutable
// per-feature state lives on the worker's stack.
type runState struct {
	engine    *Engine
	level     int
	transform grid.Affine
	levelW    int
	levelH    int
	features  []Feature
	nodata    *float64
}

// scheduleOrder arranges features in raster-block-major order so features
// sharing blocks run close together and hit a warm cache. Features whose
// envelope misses the raster keep their input position at the end; they fail
// fast without fetching.
func (r *runState) scheduleOrder() []int {
	items := make([]index.Item, len(r.features))
	for i, f := range r.features {
		minX, minY, maxX, maxY := envelope(f.Rings)
		items[i] = index.Item{Pos: i, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	ix := index.New(items)

	order := make([]int, 0, len(r.features))
	seen := make([]bool, len(r.features))
	bw, bh := r.engine.raster.BlockWidth, r.engine.raster.BlockHeight
	for blockRow := 0; blockRow*bh < r.levelH; blockRow++ {
		for blockCol := 0; blockCol*bw < r.levelW; blockCol++ {
			minX, minY, maxX, maxY := blockEnvelope(r.transform, blockCol, blockRow, bw, bh)
			for _, pos := range ix.Query(minX, minY, maxX, maxY) {
				if !seen[pos] {
					seen[pos] = true
					order = append(order, pos)
				}
			}
		}
	}
	for pos := range r.features {
		if !seen[pos] {
			order = append(order, pos)
		}
	}
	return order
}

// processFeature runs one feature through the pipeline and never lets its
// failure escape to the run.
func (r *runState) processFeature(ctx context.Context, pos int) Result {
	f := r.features[pos]
	t := tracker{}
	fail := func(err error) Result {
		failedAt := t.state
		t.advance(StateFailed)
		r.engine.log.Debug().Str("feature", f.ID).Str("state", failedAt.String()).
			Err(err).Msg("feature failed")
		return Result{FeatureID: f.ID, State: t.state, Err: err}
	}

	minX, minY, maxX, maxY := envelope(f.Rings)
	window, err := grid.WindowForEnvelope(r.transform, r.levelW, r.levelH, minX, minY, maxX, maxY)
	if err != nil {
		return fail(err)
	}
	t.advance(StateWindowComputed)

	samples, err := r.engine.accessor.GetWindow(ctx, window, r.level)
	if err != nil {
		return fail(err)
	}
	t.advance(StateDataFetched)

	mask, err := rasterize.Polygon(f.Rings, r.transform, window)
	if err != nil {
		return fail(err)
	}
	t.advance(StateRasterized)

	result := Result{FeatureID: f.ID}
	if r.engine.opts.Categorical {
		result.ClassAreas = r.aggregateCategorical(mask, samples[0], window)
	} else {
		result.Bands = r.aggregateStatistics(mask, samples, window)
	}
	t.advance(StateAggregated)

	t.advance(StateDone)
	result.State = t.state
	return result
}

func (r *runState) skip(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return r.nodata != nil && v == *r.nodata
}

func (r *runState) aggregateStatistics(mask *rasterize.Mask, samples [][]float64, window grid.Window) []map[string]float64 {
	accs := make([]*stats.Accumulator, len(samples))
	for b := range accs {
		accs[b] = stats.NewAccumulator(r.engine.opts.MedianExactLimit)
	}
	for y := 0; y < window.Height; y++ {
		rowOff := y * window.Width
		for x := 0; x < window.Width; x++ {
			if !mask.Cells[rowOff+x] {
				continue
			}
			for b, band := range samples {
				v := band[rowOff+x]
				if r.skip(v) {
					continue
				}
				accs[b].Add(v)
			}
		}
	}

	requested := r.engine.opts.Statistics
	if len(requested) == 0 {
		requested = AllStatistics
	}
	out := make([]map[string]float64, len(accs))
	for b, acc := range accs {
		values := make(map[string]float64, len(requested))
		for _, name := range requested {
			switch name {
			case "min":
				values[name] = acc.Min()
			case "max":
				values[name] = acc.Max()
			case "mean":
				values[name] = acc.Mean()
			case "median":
				values[name] = acc.Median()
			case "sum":
				values[name] = acc.Sum()
			case "count":
				values[name] = float64(acc.Count())
			case "stddev":
				values[name] = acc.StdDev()
			}
		}
		out[b] = values
	}
	return out
}

// aggregateCategorical accumulates area per class from the first band. Pixel
// area varies by row for geographic rasters.
func (r *runState) aggregateCategorical(mask *rasterize.Mask, band []float64, window grid.Window) map[float64]float64 {
	areas := stats.NewClassAreas()
	for y := 0; y < window.Height; y++ {
		rowArea := stats.RowArea(r.transform, window, y, r.engine.raster.Geographic)
		rowOff := y * window.Width
		for x := 0; x < window.Width; x++ {
			if !mask.Cells[rowOff+x] {
				continue
			}
			v := band[rowOff+x]
			if r.skip(v) {
				continue
			}
			areas.Add(v, rowArea)
		}
	}
	return areas.Areas()
}

// envelope returns the bounding box of all rings.
func envelope(rings []rasterize.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return minX, minY, maxX, maxY
}

// blockEnvelope returns the geographic bounding box of one storage block.
func blockEnvelope(transform grid.Affine, blockCol, blockRow, bw, bh int) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, corner := range [4][2]float64{
		{float64(blockCol * bw), float64(blockRow * bh)},
		{float64((blockCol + 1) * bw), float64(blockRow * bh)},
		{float64(blockCol * bw), float64((blockRow + 1) * bh)},
		{float64((blockCol + 1) * bw), float64((blockRow + 1) * bh)},
	} {
		x, y := transform.PixelToGeo(corner[0], corner[1])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

