package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/beetlebugorg/zonal/internal/grid"
	"github.com/beetlebugorg/zonal/internal/rasterize"
	"github.com/beetlebugorg/zonal/internal/store"
)

// gridFetcher serves a single-block in-memory raster.
type gridFetcher struct {
	raster *store.Raster
	data   [][]float64
}

func (f *gridFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	scale := f.raster.Levels[level].Scale
	bw, bh := f.raster.BlockWidth, f.raster.BlockHeight
	out := make([][]float64, f.raster.Bands)
	for b := range out {
		band := make([]float64, bw*bh)
		for y := 0; y < bh; y++ {
			for x := 0; x < bw; x++ {
				baseCol := (col*bw + x) * scale
				baseRow := (row*bh + y) * scale
				if baseCol < f.raster.Width && baseRow < f.raster.Height {
					band[y*bw+x] = f.data[b][baseRow*f.raster.Width+baseCol]
				}
			}
		}
		out[b] = band
	}
	return out, nil
}

// quadRaster is the 4x4 raster from the acceptance scenario: cell size 1,
// origin at (0, 4), values 1..16 reading left-right top-down.
func quadRaster(t *testing.T) (*store.Raster, *gridFetcher) {
	t.Helper()
	transform, err := grid.NewAffine([6]float64{0, 1, 0, 4, 0, -1})
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	raster := &store.Raster{
		Width: 4, Height: 4, Bands: 1,
		BlockWidth: 4, BlockHeight: 4,
		Transform: transform,
		Levels:    []store.Level{{Scale: 1}},
	}
	data := make([]float64, 16)
	for i := range data {
		data[i] = float64(i + 1)
	}
	return raster, &gridFetcher{raster: raster, data: [][]float64{data}}
}

func newTestEngine(t *testing.T, raster *store.Raster, fetcher store.BlockFetcher, opts Options) *Engine {
	t.Helper()
	acc := store.NewAccessor(raster, fetcher, store.AccessorOptions{})
	return New(acc, opts)
}

func square(x0, y0, x1, y1 float64) rasterize.Ring {
	return rasterize.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
}

func TestRunTopLeftBlock(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{})

	// Top-left 2x2 block in geographic space: x 0..2, y 2..4.
	features := []Feature{{ID: "f1", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	results, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 || summary.Failed != 0 {
		t.Fatalf("Expected 1 success, got summary %+v", summary)
	}

	r := results[0]
	if r.Err != nil {
		t.Fatalf("Feature failed: %v", r.Err)
	}
	if r.State != StateDone {
		t.Errorf("Expected Done state, got %v", r.State)
	}
	band := r.Bands[0]
	want := map[string]float64{"min": 1, "max": 6, "mean": 3.5, "sum": 14, "count": 4, "median": 3.5}
	for name, expected := range want {
		if got := band[name]; got != expected {
			t.Errorf("Expected %s=%g, got %g", name, expected, got)
		}
	}
}

func TestRunSinglePixelPolygon(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{})

	// Pixel (1, 1) holds value 6; its geographic cell is x 1..2, y 2..3.
	features := []Feature{{ID: "px", Rings: []rasterize.Ring{square(1, 2, 2, 3)}}}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	band := results[0].Bands[0]
	if band["count"] != 1 || band["min"] != 6 || band["max"] != 6 || band["mean"] != 6 {
		t.Errorf("Expected single-pixel stats min=max=mean=6 count=1, got %v", band)
	}
}

func TestRunFailureIsolation(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{})

	features := []Feature{
		{ID: "ok", Rings: []rasterize.Ring{square(0, 2, 2, 4)}},
		{ID: "oob", Rings: []rasterize.Ring{square(100, 100, 102, 102)}},
		{ID: "degenerate", Rings: []rasterize.Ring{{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}},
	}
	results, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 || summary.Failed != 2 {
		t.Fatalf("Expected 1 success and 2 failures, got %+v", summary)
	}

	if results[0].Err != nil {
		t.Errorf("Healthy feature affected by sibling failures: %v", results[0].Err)
	}

	var oob *grid.ErrOutOfBounds
	if !errors.As(results[1].Err, &oob) {
		t.Errorf("Expected ErrOutOfBounds for feature 'oob', got %v", results[1].Err)
	}
	if results[1].State != StateFailed {
		t.Errorf("Expected Failed state, got %v", results[1].State)
	}

	var invalid *rasterize.ErrInvalidPolygon
	if !errors.As(results[2].Err, &invalid) {
		t.Errorf("Expected ErrInvalidPolygon for feature 'degenerate', got %v", results[2].Err)
	}

	if len(summary.Failures) != 2 {
		t.Errorf("Expected 2 recorded failure reasons, got %v", summary.Failures)
	}
}

func TestRunResultsInInputOrder(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{Concurrency: 4})

	// Features placed so block-major scheduling differs from input order.
	features := []Feature{
		{ID: "d", Rings: []rasterize.Ring{square(2, 0, 4, 2)}},
		{ID: "a", Rings: []rasterize.Ring{square(0, 2, 2, 4)}},
		{ID: "c", Rings: []rasterize.Ring{square(0, 0, 2, 2)}},
		{ID: "b", Rings: []rasterize.Ring{square(2, 2, 4, 4)}},
	}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.FeatureID
	}
	want := []string{"d", "a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected results in input order %v, got %v", want, got)
	}
}

func TestRunDeterministic(t *testing.T) {
	raster, fetcher := quadRaster(t)

	run := func() []Result {
		engine := newTestEngine(t, raster, fetcher, Options{Concurrency: 4})
		features := []Feature{
			{ID: "a", Rings: []rasterize.Ring{square(0, 2, 2, 4)}},
			{ID: "b", Rings: []rasterize.Ring{square(1, 1, 3, 3)}},
			{ID: "c", Rings: []rasterize.Ring{square(0, 0, 4, 4)}},
		}
		results, _, err := engine.Run(context.Background(), features)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return results
	}

	first, second := run(), run()
	for i := range first {
		if !reflect.DeepEqual(first[i].Bands, second[i].Bands) {
			t.Errorf("Feature %d stats differ between identical runs: %v vs %v",
				i, first[i].Bands, second[i].Bands)
		}
	}
}

func TestRunCancelledReturnsNoResults(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	features := []Feature{{ID: "f", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	results, summary, err := engine.Run(ctx, features)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if results != nil || summary != nil {
		t.Error("Cancelled run must not return partial results")
	}
}

func TestRunCategoricalCompleteness(t *testing.T) {
	transform, err := grid.NewAffine([6]float64{0, 1, 0, 4, 0, -1})
	if err != nil {
		t.Fatalf("NewAffine failed: %v", err)
	}
	raster := &store.Raster{
		Width: 4, Height: 4, Bands: 1,
		BlockWidth: 4, BlockHeight: 4,
		Transform: transform,
		Levels:    []store.Level{{Scale: 1}},
	}
	// Two classes: left half 1, right half 2.
	data := make([]float64, 16)
	for i := range data {
		if i%4 < 2 {
			data[i] = 1
		} else {
			data[i] = 2
		}
	}
	fetcher := &gridFetcher{raster: raster, data: [][]float64{data}}
	engine := newTestEngine(t, raster, fetcher, Options{Categorical: true})

	features := []Feature{{ID: "all", Rings: []rasterize.Ring{square(0, 0, 4, 4)}}}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	areas := results[0].ClassAreas
	if len(areas) != 2 {
		t.Fatalf("Expected 2 classes, got %v", areas)
	}
	// Projected raster with unit pixels: 8 pixels of each class.
	if areas[1] != 8 || areas[2] != 8 {
		t.Errorf("Expected 8 area units per class, got %v", areas)
	}
	total := areas[1] + areas[2]
	if math.Abs(total-16) > 1e-9 {
		t.Errorf("Class areas must sum to the rasterized area 16, got %g", total)
	}
}

func TestRunNodataExcluded(t *testing.T) {
	raster, fetcher := quadRaster(t)
	raster.Nodata = 6
	raster.HasNodata = true
	engine := newTestEngine(t, raster, fetcher, Options{})

	features := []Feature{{ID: "f", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	band := results[0].Bands[0]
	// Value 6 is nodata: remaining samples are 1, 2, 5.
	if band["count"] != 3 || band["sum"] != 8 || band["max"] != 5 {
		t.Errorf("Expected nodata pixel excluded (count=3 sum=8 max=5), got %v", band)
	}
}

func TestRunNodataOverride(t *testing.T) {
	raster, fetcher := quadRaster(t)
	override := 1.0
	engine := newTestEngine(t, raster, fetcher, Options{NodataOverride: &override})

	features := []Feature{{ID: "f", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	band := results[0].Bands[0]
	if band["count"] != 3 || band["min"] != 2 {
		t.Errorf("Expected override to exclude value 1 (count=3 min=2), got %v", band)
	}
}

func TestRunStatisticsSubset(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{Statistics: []string{"mean", "count"}})

	features := []Feature{{ID: "f", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	band := results[0].Bands[0]
	if len(band) != 2 {
		t.Errorf("Expected only requested statistics, got %v", band)
	}
	if band["mean"] != 3.5 || band["count"] != 4 {
		t.Errorf("Expected mean=3.5 count=4, got %v", band)
	}
}

func TestRunProgress(t *testing.T) {
	raster, fetcher := quadRaster(t)

	var calls []int
	engine := newTestEngine(t, raster, fetcher, Options{
		Concurrency: 1,
		Progress:    func(done, total int) { calls = append(calls, done) },
	})

	features := []Feature{
		{ID: "a", Rings: []rasterize.Ring{square(0, 2, 2, 4)}},
		{ID: "b", Rings: []rasterize.Ring{square(2, 2, 4, 4)}},
	}
	if _, _, err := engine.Run(context.Background(), features); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(calls, []int{1, 2}) {
		t.Errorf("Expected progress calls [1 2], got %v", calls)
	}
}

func TestRunSummaryFields(t *testing.T) {
	raster, fetcher := quadRaster(t)
	engine := newTestEngine(t, raster, fetcher, Options{})

	features := []Feature{{ID: "f", Rings: []rasterize.Ring{square(0, 2, 2, 4)}}}
	start := time.Now()
	_, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.RunID == "" {
		t.Error("Expected non-empty run ID")
	}
	if summary.Total != 1 {
		t.Errorf("Expected total 1, got %d", summary.Total)
	}
	if summary.Duration < 0 || summary.Duration > time.Since(start)+time.Second {
		t.Errorf("Implausible duration %v", summary.Duration)
	}
}
