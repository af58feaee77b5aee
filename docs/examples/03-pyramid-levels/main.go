package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

// countingFetcher tracks how many blocks each run touches, so the effect of
// the pyramid level is visible.
type countingFetcher struct {
	fetches atomic.Int64
}

func (f *countingFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	f.fetches.Add(1)
	band := make([]float64, 256*256)
	scale := 1 << level
	for i := range band {
		band[i] = float64(scale)
	}
	return [][]float64{band}, nil
}

func main() {
	// Base resolution 0.0005 degrees with three overview levels
	dataset := &zonal.Dataset{
		Width: 4096, Height: 4096, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.0005, 0, 60.0, 0, -0.0005},
		Levels:    []int{1, 2, 4, 8},
		CRS:       "EPSG:4326",
	}

	features := []zonal.Feature{{
		ID: "region",
		Rings: []zonal.Ring{{
			{X: 10.1, Y: 59.9}, {X: 11.9, Y: 59.9},
			{X: 11.9, Y: 58.1}, {X: 10.1, Y: 58.1},
			{X: 10.1, Y: 59.9},
		}},
	}}

	// The coarsest level whose pixel size stays at or below the target is
	// selected. Target 0 always uses the base resolution.
	for _, target := range []float64{0, 0.001, 0.002, 0.004} {
		fetcher := &countingFetcher{}
		cfg := zonal.DefaultConfig()
		cfg.TargetPixelSize = target

		engine, err := zonal.New(dataset, fetcher, cfg)
		if err != nil {
			log.Fatal(err)
		}
		_, summary, err := engine.Run(context.Background(), features)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("target %.4f: level %d, %d block fetches\n",
			target, summary.Level, fetcher.fetches.Load())
	}
}
