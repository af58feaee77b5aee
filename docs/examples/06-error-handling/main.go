package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

// flakyFetcher fails some blocks permanently to exercise the error paths.
type flakyFetcher struct{}

func (flakyFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	if col == 3 && row == 0 {
		return nil, fmt.Errorf("block %d/%d/%d: storage backend returned 503", level, col, row)
	}
	band := make([]float64, 256*256)
	for i := range band {
		band[i] = 7
	}
	return [][]float64{band}, nil
}

func main() {
	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:       "EPSG:4326",
	}

	cfg := zonal.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.FetchTimeout = 5 * time.Second

	engine, err := zonal.New(dataset, flakyFetcher{}, cfg)
	if err != nil {
		// Configuration problems fail fast, before any feature runs
		var cfgErr *zonal.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatalf("bad configuration: %v", cfgErr)
		}
		log.Fatal(err)
	}

	features := []zonal.Feature{
		// Healthy zone over reachable blocks
		{ID: "good", Rings: []zonal.Ring{{
			{X: 10.05, Y: 59.95}, {X: 10.2, Y: 59.95},
			{X: 10.2, Y: 59.8}, {X: 10.05, Y: 59.8},
			{X: 10.05, Y: 59.95},
		}}},
		// Zone over the failing block
		{ID: "unreachable", Rings: []zonal.Ring{{
			{X: 10.8, Y: 59.99}, {X: 10.95, Y: 59.99},
			{X: 10.95, Y: 59.9}, {X: 10.8, Y: 59.9},
			{X: 10.8, Y: 59.99},
		}}},
		// Zone entirely outside the raster
		{ID: "elsewhere", Rings: []zonal.Ring{{
			{X: 50, Y: 50}, {X: 51, Y: 50},
			{X: 51, Y: 49}, {X: 50, Y: 49},
			{X: 50, Y: 50},
		}}},
		// Self-intersecting ring
		{ID: "bowtie", Rings: []zonal.Ring{{
			{X: 10.1, Y: 59.9}, {X: 10.2, Y: 59.8},
			{X: 10.2, Y: 59.9}, {X: 10.1, Y: 59.8},
			{X: 10.1, Y: 59.9},
		}}},
	}

	results, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		// Only cancellation aborts a whole run
		var cancelled *zonal.CancelledError
		if errors.As(err, &cancelled) {
			log.Fatalf("run cancelled: %v", cancelled)
		}
		log.Fatal(err)
	}

	for _, r := range results {
		if r.Err == nil {
			fmt.Printf("%-12s ok, mean=%.1f\n", r.FeatureID, r.Bands[0]["mean"])
			continue
		}

		var fetchErr *zonal.FetchError
		var oobErr *zonal.OutOfBoundsError
		var geomErr *zonal.GeometryError
		switch {
		case errors.As(r.Err, &fetchErr):
			fmt.Printf("%-12s retryable: %v\n", r.FeatureID, fetchErr)
		case errors.As(r.Err, &oobErr):
			fmt.Printf("%-12s outside raster, skipping\n", r.FeatureID)
		case errors.As(r.Err, &geomErr):
			fmt.Printf("%-12s bad geometry: %v\n", r.FeatureID, geomErr)
		default:
			fmt.Printf("%-12s failed: %v\n", r.FeatureID, r.Err)
		}
	}
	fmt.Printf("%d/%d succeeded\n", summary.Succeeded, summary.Total)
}
