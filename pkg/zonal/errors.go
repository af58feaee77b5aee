package zonal

import (
	"fmt"
)

// ConfigError indicates invalid configuration or an unusable dataset, such
// as a non-invertible geotransform. It is raised before any feature
// processing begins.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// GeometryError indicates a degenerate or self-intersecting polygon. It is
// feature-local: the feature's result carries it and the run continues.
type GeometryError struct {
	FeatureID string
	Err       error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("feature %s: invalid geometry: %v", e.FeatureID, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// FetchError indicates raster data for a feature could not be retrieved
// after exhausting the retry budget. Feature-local.
type FetchError struct {
	FeatureID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feature %s: raster fetch failed: %v", e.FeatureID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// OutOfBoundsError indicates a feature's envelope does not intersect the
// raster extent at all. Feature-local; the result carries no statistics.
type OutOfBoundsError struct {
	FeatureID string
	Err       error
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("feature %s: outside raster extent: %v", e.FeatureID, e.Err)
}

func (e *OutOfBoundsError) Unwrap() error { return e.Err }

// CancelledError indicates the run was cancelled. All in-flight work was
// abandoned and no results were returned.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }
