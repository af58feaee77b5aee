package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

type flatFetcher struct{}

func (flatFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	band := make([]float64, 256*256)
	for i := range band {
		band[i] = 42
	}
	return [][]float64{band}, nil
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:       "EPSG:4326",
	}

	cfg := zonal.DefaultConfig()
	cfg.Logger = &logger
	cfg.Progress = func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rprocessed %d/%d", done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}

	engine, err := zonal.New(dataset, flatFetcher{}, cfg)
	if err != nil {
		log.Fatal(err)
	}

	// A batch of small zones, one of them degenerate so the failure path
	// shows up in the log output.
	var features []zonal.Feature
	for i := 0; i < 5; i++ {
		x := 10.05 + float64(i)*0.15
		features = append(features, zonal.Feature{
			ID: fmt.Sprintf("zone-%d", i),
			Rings: []zonal.Ring{{
				{X: x, Y: 59.9}, {X: x + 0.1, Y: 59.9},
				{X: x + 0.1, Y: 59.8}, {X: x, Y: 59.8},
				{X: x, Y: 59.9},
			}},
		})
	}
	features = append(features, zonal.Feature{
		ID:    "broken",
		Rings: []zonal.Ring{{{X: 10, Y: 59}, {X: 10, Y: 59}, {X: 10, Y: 59}, {X: 10, Y: 59}}},
	})

	_, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	for id, reason := range summary.Failures {
		fmt.Printf("  %s: %s\n", id, reason)
	}
}
