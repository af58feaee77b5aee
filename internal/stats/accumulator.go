// Package stats accumulates per-feature zonal statistics from masked raster
// windows. Memory is bounded per feature: scalar running sums plus a capped
// median buffer that degrades to a streaming estimate for large windows.
package stats

import (
	"math"
)

// DefaultMedianExactLimit is the number of samples up to which the median is
// computed exactly. Beyond it the accumulator switches to the P² streaming
// estimate, keeping memory constant.
const DefaultMedianExactLimit = 16384

// Accumulator collects count, sum, sum of squares, min, max and median for
// one band of one feature. Nodata filtering happens in the caller; every
// value passed to Add contributes.
type Accumulator struct {
	count      int64
	sum        float64
	sumSquares float64
	min        float64
	max        float64

	exactLimit int
	values     []float64 // exact median buffer, nil once spilled
	estimator  *p2Estimator
}

// NewAccumulator creates an accumulator whose median stays exact up to
// exactLimit samples. A non-positive limit uses DefaultMedianExactLimit.
func NewAccumulator(exactLimit int) *Accumulator {
	if exactLimit <= 0 {
		exactLimit = DefaultMedianExactLimit
	}
	return &Accumulator{
		min:        math.Inf(1),
		max:        math.Inf(-1),
		exactLimit: exactLimit,
		values:     make([]float64, 0, 16),
	}
}

// Add folds one sample value into the running statistics.
func (a *Accumulator) Add(v float64) {
	a.count++
	a.sum += v
	a.sumSquares += v * v
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}

	if a.estimator != nil {
		a.estimator.add(v)
		return
	}
	a.values = append(a.values, v)
	if len(a.values) > a.exactLimit {
		a.estimator = newP2Estimator(0.5)
		for _, buffered := range a.values {
			a.estimator.add(buffered)
		}
		a.values = nil
	}
}

// Count returns the number of accumulated samples.
func (a *Accumulator) Count() int64 {
	return a.count
}

// Sum returns the running sum.
func (a *Accumulator) Sum() float64 {
	return a.sum
}

// Min returns the smallest sample, or NaN when empty.
func (a *Accumulator) Min() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.min
}

// Max returns the largest sample, or NaN when empty.
func (a *Accumulator) Max() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.max
}

// Mean returns the arithmetic mean, or NaN when empty.
func (a *Accumulator) Mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.count)
}

// StdDev returns the population standard deviation, or NaN when empty.
func (a *Accumulator) StdDev() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	mean := a.Mean()
	variance := a.sumSquares/float64(a.count) - mean*mean
	if variance < 0 { // guard against rounding
		variance = 0
	}
	return math.Sqrt(variance)
}

// Median returns the exact median for small windows or the P² estimate for
// large ones. NaN when empty.
func (a *Accumulator) Median() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	if a.estimator != nil {
		return a.estimator.value()
	}
	return exactMedian(a.values)
}
