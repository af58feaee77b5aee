// Package zonal computes per-feature statistics over cloud-resident tiled
// rasters without materializing the full raster in memory.
//
// Given a set of polygon features and a raster pyramid reachable through a
// caller-provided block fetcher, the engine computes min/max/mean/median/
// sum/count per band for every feature, or area per class in categorical
// mode. Blocks are fetched lazily with retries and an LRU cache; features
// are processed by a bounded worker pool and a single feature's failure
// never aborts the batch.
//
// # Basic Usage
//
//	dataset := &zonal.Dataset{
//	    Width: 3600, Height: 1800, Bands: 1,
//	    BlockWidth: 256, BlockHeight: 256,
//	    Transform:  [6]float64{-180, 0.1, 0, 90, 0, -0.1},
//	    Levels:     []int{1, 2, 4},
//	    CRS:        "EPSG:4326",
//	    Geographic: true,
//	}
//
//	engine, err := zonal.New(dataset, fetcher, zonal.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, summary, err := engine.Run(ctx, features)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    if r.Err != nil {
//	        fmt.Printf("%s: %v\n", r.FeatureID, r.Err)
//	        continue
//	    }
//	    fmt.Printf("%s: mean=%.2f\n", r.FeatureID, r.Bands[0]["mean"])
//	}
//
// # Block Fetchers
//
// The engine never opens files or sockets itself. Implement BlockFetcher
// over whatever storage holds the raster (HTTP range requests, object
// storage, a local file) and the engine will request only the blocks that
// feature windows touch. Concurrent requests for the same uncached block
// coalesce into one fetch.
//
// # Failure Model
//
// Invalid polygons, fetch failures after retry exhaustion, and features
// outside the raster extent fail individually; their results carry a typed
// error and the run summary accounts for every feature. Invalid
// configuration fails fast with ConfigError before any processing. A
// cancelled context aborts the whole run and discards all results.
package zonal
