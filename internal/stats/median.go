package stats

import (
	"sort"
)

// exactMedian sorts a copy of values and returns the middle element, or the
// midpoint of the two middle elements for even counts.
func exactMedian(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// p2Estimator is the P² (piecewise-parabolic) streaming quantile estimator
// of Jain and Chlamtac. It maintains five markers in constant memory and is
// deterministic for a given input order, which keeps engine runs
// reproducible.
type p2Estimator struct {
	p       float64
	n       int
	heights [5]float64
	pos     [5]float64
	want    [5]float64
	incr    [5]float64
}

func newP2Estimator(p float64) *p2Estimator {
	e := &p2Estimator{p: p}
	e.pos = [5]float64{1, 2, 3, 4, 5}
	e.want = [5]float64{1, 1 + 2*p, 1 + 4*p, 3 + 2*p, 5}
	e.incr = [5]float64{0, p / 2, p, (1 + p) / 2, 1}
	return e
}

func (e *p2Estimator) add(v float64) {
	if e.n < 5 {
		e.heights[e.n] = v
		e.n++
		if e.n == 5 {
			sort.Float64s(e.heights[:])
		}
		return
	}

	// Find the cell containing v and bump marker positions.
	var k int
	switch {
	case v < e.heights[0]:
		e.heights[0] = v
		k = 0
	case v >= e.heights[4]:
		e.heights[4] = v
		k = 3
	default:
		for k = 0; k < 4; k++ {
			if v < e.heights[k+1] {
				break
			}
		}
	}
	for i := k + 1; i < 5; i++ {
		e.pos[i]++
	}
	for i := range e.want {
		e.want[i] += e.incr[i]
	}

	// Adjust the three interior markers toward their desired positions.
	for i := 1; i <= 3; i++ {
		d := e.want[i] - e.pos[i]
		if (d >= 1 && e.pos[i+1]-e.pos[i] > 1) || (d <= -1 && e.pos[i-1]-e.pos[i] < -1) {
			sign := 1.0
			if d < 0 {
				sign = -1.0
			}
			h := e.parabolic(i, sign)
			if e.heights[i-1] < h && h < e.heights[i+1] {
				e.heights[i] = h
			} else {
				e.heights[i] = e.linear(i, sign)
			}
			e.pos[i] += sign
		}
	}
	e.n++
}

func (e *p2Estimator) parabolic(i int, sign float64) float64 {
	return e.heights[i] + sign/(e.pos[i+1]-e.pos[i-1])*
		((e.pos[i]-e.pos[i-1]+sign)*(e.heights[i+1]-e.heights[i])/(e.pos[i+1]-e.pos[i])+
			(e.pos[i+1]-e.pos[i]-sign)*(e.heights[i]-e.heights[i-1])/(e.pos[i]-e.pos[i-1]))
}

func (e *p2Estimator) linear(i int, sign float64) float64 {
	j := i + int(sign)
	return e.heights[i] + sign*(e.heights[j]-e.heights[i])/(e.pos[j]-e.pos[i])
}

// value returns the current quantile estimate. With fewer than five samples
// it falls back to the exact quantile of what has been seen.
func (e *p2Estimator) value() float64 {
	if e.n < 5 {
		return exactMedian(e.heights[:e.n])
	}
	return e.heights[2]
}
