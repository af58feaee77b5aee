package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

// landCoverFetcher serves a synthetic land-cover classification: class 1
// (water) in the west, class 2 (forest) in the middle, class 3 (urban) east.
type landCoverFetcher struct{}

func (landCoverFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	band := make([]float64, 256*256)
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			gx := col*256 + x
			switch {
			case gx < 400:
				band[y*256+x] = 1
			case gx < 800:
				band[y*256+x] = 2
			default:
				band[y*256+x] = 3
			}
		}
	}
	return [][]float64{band}, nil
}

var classNames = map[float64]string{1: "water", 2: "forest", 3: "urban"}

func main() {
	// Geographic raster: pixel areas shrink with latitude
	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform:  [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:        "EPSG:4326",
		Geographic: true,
	}

	cfg := zonal.DefaultConfig()
	cfg.Categorical = true

	engine, err := zonal.New(dataset, landCoverFetcher{}, cfg)
	if err != nil {
		log.Fatal(err)
	}

	features := []zonal.Feature{{
		ID: "municipality",
		Rings: []zonal.Ring{{
			{X: 10.2, Y: 59.8}, {X: 10.9, Y: 59.8},
			{X: 10.9, Y: 59.2}, {X: 10.2, Y: 59.2},
			{X: 10.2, Y: 59.8},
		}},
	}}

	results, _, err := engine.Run(context.Background(), features)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		if r.Err != nil {
			log.Fatal(r.Err)
		}
		// Sort classes for stable output
		classes := make([]float64, 0, len(r.ClassAreas))
		for class := range r.ClassAreas {
			classes = append(classes, class)
		}
		sort.Float64s(classes)

		fmt.Printf("%s land cover:\n", r.FeatureID)
		for _, class := range classes {
			km2 := r.ClassAreas[class] / 1e6
			fmt.Printf("  %-7s %10.2f km2\n", classNames[class], km2)
		}
	}
}
