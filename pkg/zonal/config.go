package zonal

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/beetlebugorg/zonal/internal/engine"
)

// Statistics lists the supported per-band statistic names.
func Statistics() []string {
	out := make([]string, len(engine.AllStatistics))
	copy(out, engine.AllStatistics)
	return out
}

// Config controls a run. Start from DefaultConfig and override fields.
type Config struct {
	// Statistics selects which per-band statistics to compute. Empty means
	// all of them. Ignored in categorical mode.
	Statistics []string

	// TargetPixelSize selects the coarsest pyramid level whose pixel size
	// does not exceed it. 0 uses the base resolution.
	TargetPixelSize float64

	// Categorical switches from continuous statistics to area per class.
	Categorical bool

	// NodataOverride supersedes the dataset's declared nodata sentinel.
	NodataOverride *float64

	// Concurrency bounds the feature worker pool. 0 uses the CPU count.
	Concurrency int

	// MedianExactLimit is the per-band sample count beyond which the median
	// switches from exact to streaming estimation. 0 uses the default.
	MedianExactLimit int

	// MaxRetries caps fetch attempts per block.
	MaxRetries int

	// FetchTimeout bounds each fetch attempt. 0 disables the timeout.
	FetchTimeout time.Duration

	// CacheBytes is the block cache memory budget. 0 means unlimited.
	CacheBytes int64

	// Progress, when set, is called after each feature completes with the
	// number done so far and the total.
	Progress func(done, total int)

	// Logger receives diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns the recommended starting configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		FetchTimeout: 30 * time.Second,
		CacheBytes:   256 << 20,
	}
}

// Validate reports the first problem with the configuration as a ConfigError,
// or nil. New calls it; exported so callers can check configuration built from
// user input before constructing an engine.
func (c *Config) Validate() error {
	known := make(map[string]bool, len(engine.AllStatistics))
	for _, name := range engine.AllStatistics {
		known[name] = true
	}
	for _, name := range c.Statistics {
		if !known[name] {
			return &ConfigError{Reason: fmt.Sprintf("unknown statistic %q", name)}
		}
	}
	if c.TargetPixelSize < 0 {
		return &ConfigError{Reason: "target pixel size must not be negative"}
	}
	if c.Concurrency < 0 {
		return &ConfigError{Reason: "concurrency must not be negative"}
	}
	if c.MedianExactLimit < 0 {
		return &ConfigError{Reason: "median exact limit must not be negative"}
	}
	if c.MaxRetries < 0 {
		return &ConfigError{Reason: "max retries must not be negative"}
	}
	if c.CacheBytes < 0 {
		return &ConfigError{Reason: "cache budget must not be negative"}
	}
	return nil
}
