package rasterize

import (
	"fmt"
	"math"
)

// ErrInvalidPolygon indicates a degenerate or self-intersecting ring. The
// feature is skipped, not the run.
type ErrInvalidPolygon struct {
	Ring   int
	Reason string
}

func (e *ErrInvalidPolygon) Error() string {
	return fmt.Sprintf("invalid polygon ring %d: %s", e.Ring, e.Reason)
}

// validate checks every ring: at least 4 points, closed, non-zero area, and
// free of proper self-intersections.
func validate(rings []Ring) error {
	if len(rings) == 0 {
		return &ErrInvalidPolygon{Ring: 0, Reason: "polygon has no rings"}
	}
	for i, ring := range rings {
		if len(ring) < 4 {
			return &ErrInvalidPolygon{
				Ring:   i,
				Reason: fmt.Sprintf("ring has %d points, need at least 4", len(ring)),
			}
		}
		if ring[0] != ring[len(ring)-1] {
			return &ErrInvalidPolygon{Ring: i, Reason: "ring is not closed"}
		}
		if math.Abs(ringArea(ring)) < 1e-300 {
			return &ErrInvalidPolygon{Ring: i, Reason: "ring has zero area"}
		}
		if selfIntersects(ring) {
			return &ErrInvalidPolygon{Ring: i, Reason: "ring self-intersects"}
		}
	}
	return nil
}

// ringArea computes the signed shoelace area of a closed ring.
func ringArea(ring Ring) float64 {
	area := 0.0
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return area / 2
}

// selfIntersects tests every pair of non-adjacent edges for a proper
// crossing. Quadratic in edge count, which is acceptable for the ring sizes
// seen in zonal workloads; candidate filtering happens upstream.
func selfIntersects(ring Ring) bool {
	n := len(ring) - 1 // closed ring: last edge is (n-1, 0)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip adjacent edges, including the wrap-around pair.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper intersection: the segments cross at a point
// interior to both. Shared endpoints do not count.
func segmentsCross(p1, p2, q1, q2 Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
