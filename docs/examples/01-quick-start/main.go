package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

// demoFetcher serves a synthetic elevation surface. Replace with a fetcher
// backed by your raster storage.
type demoFetcher struct{}

func (demoFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	band := make([]float64, 256*256)
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			gx := float64(col*256 + x)
			gy := float64(row*256 + y)
			band[y*256+x] = 100 + 50*math.Sin(gx/40)*math.Cos(gy/40)
		}
	}
	return [][]float64{band}, nil
}

func main() {
	// Describe the raster
	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:       "EPSG:4326",
	}

	// Create engine
	engine, err := zonal.New(dataset, demoFetcher{}, zonal.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	// One polygon zone
	features := []zonal.Feature{{
		ID: "zone-1",
		Rings: []zonal.Ring{{
			{X: 10.1, Y: 59.9}, {X: 10.3, Y: 59.9},
			{X: 10.3, Y: 59.7}, {X: 10.1, Y: 59.7},
			{X: 10.1, Y: 59.9},
		}},
	}}

	results, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		log.Fatal(err)
	}

	// Print statistics
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s: %v\n", r.FeatureID, r.Err)
			continue
		}
		band := r.Bands[0]
		fmt.Printf("%s: min=%.1f max=%.1f mean=%.1f median=%.1f count=%.0f\n",
			r.FeatureID, band["min"], band["max"], band["mean"], band["median"], band["count"])
	}
	fmt.Printf("Run %s: %d/%d succeeded in %v\n",
		summary.RunID, summary.Succeeded, summary.Total, summary.Duration)
}
