package zonal

import (
	"time"
)

// Result is the outcome for one feature. Failed features carry Err; in
// statistics mode Bands holds one name-to-value map per band; in categorical
// mode ClassAreas maps class value to covered area.
type Result struct {
	// FeatureID echoes the input feature's ID.
	FeatureID string `json:"feature_id"`

	// Bands holds per-band statistics, nil in categorical mode or on failure.
	Bands []map[string]float64 `json:"bands,omitempty"`

	// ClassAreas holds area per class in the raster's square units, nil
	// outside categorical mode.
	ClassAreas map[float64]float64 `json:"class_areas,omitempty"`

	// Err is the feature's failure, nil on success.
	Err error `json:"-"`
}

// Summary is the run-level accounting. Every input feature is counted exactly
// once as succeeded or failed.
type Summary struct {
	// RunID uniquely identifies the run in logs and downstream records.
	RunID string `json:"run_id"`

	// Level is the pyramid level the run computed on.
	Level int `json:"level"`

	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Failures maps failed feature IDs to their error messages.
	Failures map[string]string `json:"failures,omitempty"`

	Duration time.Duration `json:"duration"`
}
