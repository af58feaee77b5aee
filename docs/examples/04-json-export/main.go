package main

import (
	"context"
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"

	"github.com/beetlebugorg/zonal/pkg/zonal"
)

type constantFetcher struct{}

func (constantFetcher) FetchBlock(ctx context.Context, level, col, row int) ([][]float64, error) {
	band := make([]float64, 256*256)
	for i := range band {
		band[i] = float64(col + row + 1)
	}
	return [][]float64{band}, nil
}

// record joins a result with its feature's attributes for export.
type record struct {
	FeatureID  string                 `json:"feature_id"`
	Attributes map[string]zonal.Value `json:"attributes,omitempty"`
	Statistics map[string]float64     `json:"statistics,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

func main() {
	dataset := &zonal.Dataset{
		Width: 1024, Height: 1024, Bands: 1,
		BlockWidth: 256, BlockHeight: 256,
		Transform: [6]float64{10.0, 0.001, 0, 60.0, 0, -0.001},
		CRS:       "EPSG:4326",
	}

	engine, err := zonal.New(dataset, constantFetcher{}, zonal.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	features := []zonal.Feature{
		{
			ID: "parcel-17",
			Rings: []zonal.Ring{{
				{X: 10.1, Y: 59.9}, {X: 10.4, Y: 59.9},
				{X: 10.4, Y: 59.6}, {X: 10.1, Y: 59.6},
				{X: 10.1, Y: 59.9},
			}},
			Attributes: map[string]zonal.Value{
				"owner":     zonal.StringValue("municipality"),
				"parcel_no": zonal.NumberValue(17),
				"protected": zonal.BoolValue(false),
			},
		},
	}

	results, summary, err := engine.Run(context.Background(), features)
	if err != nil {
		log.Fatal(err)
	}

	records := make([]record, len(results))
	for i, r := range results {
		rec := record{FeatureID: r.FeatureID, Attributes: features[i].Attributes}
		if r.Err != nil {
			rec.Error = r.Err.Error()
		} else {
			rec.Statistics = r.Bands[0]
		}
		records[i] = rec
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "exported %d records from run %s\n", summary.Total, summary.RunID)
}
