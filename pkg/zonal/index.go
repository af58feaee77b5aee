package zonal

import (
	"github.com/beetlebugorg/zonal/internal/index"
)

// FeatureIndex answers bounding-box queries over a feature set. Build it once
// and query repeatedly; the index is immutable and safe for concurrent use.
type FeatureIndex struct {
	features []Feature
	tree     *index.Index
}

// NewFeatureIndex bulk-loads a spatial index over features.
func NewFeatureIndex(features []Feature) *FeatureIndex {
	items := make([]index.Item, len(features))
	for i := range features {
		minX, minY, maxX, maxY := features[i].Envelope()
		items[i] = index.Item{Pos: i, MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return &FeatureIndex{features: features, tree: index.New(items)}
}

// FeaturesInBounds returns the features whose envelope intersects the query
// box, in input order.
func (ix *FeatureIndex) FeaturesInBounds(minX, minY, maxX, maxY float64) []Feature {
	positions := ix.tree.Query(minX, minY, maxX, maxY)
	out := make([]Feature, len(positions))
	for i, pos := range positions {
		out[i] = ix.features[pos]
	}
	return out
}

// Size returns the number of indexed features.
func (ix *FeatureIndex) Size() int {
	return ix.tree.Size()
}
