package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

type rampFetcher struct{}

func (rampFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	band := make([]float64, 256*256)
	for i := range band {
		band[i] = float64(row*4 + col)
	}
	return [][]float64{band}, nil
}

func main() {
	// A national feature set, of which only one tile's worth is relevant
	var features []zonal.Feature
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			x := 5.0 + float64(i)*0.5
			y := 65.0 - float64(j)*0.5
			features = append(features, zonal.Feature{
				ID: fmt.Sprintf("cell-%d-%d", i, j),
				Rings: []zonal.Ring{{
					{X: x, Y: y}, {X: x + 0.4, Y: y},
					{X: x + 0.4, Y: y - 0.4}, {X: x, Y: y - 0.4},
					{X: x, Y: y},
				}},
			})
		}
	}

	// Index once, then query the area of interest instead of scanning all
	// features against the raster extent.
	index := zonal.NewFeatureIndex(features)
	fmt.Printf("indexed %d features\n", index.Size())

	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:       "EPSG:4326",
	}
	subset := index.FeaturesInBounds(10.0, 59.0, 11.0, 60.0)
	fmt.Printf("%d features intersect the raster area\n", len(subset))

	engine, err := zonal.New(dataset, rampFetcher{}, zonal.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	_, summary, err := engine.Run(context.Background(), subset)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("computed statistics for %d features in %v\n",
		summary.Succeeded, summary.Duration)
}
