// Package index provides an R-tree bounding-box index over polygon features
// for candidate lookup without exhaustive scans.
package index

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Item is one indexed entry: a feature's position in the input sequence plus
// its envelope.
type Item struct {
	Pos                    int
	MinX, MinY, MaxX, MaxY float64
}

// Index answers bounding-box queries in roughly O(log n + k).
type Index struct {
	tree *rtreego.Rtree
	size int
}

// indexedItem wraps an Item for R-tree storage.
type indexedItem struct {
	item Item
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (it *indexedItem) Bounds() rtreego.Rect {
	return it.rect
}

// epsilon pads zero-extent envelopes; the R-tree requires non-zero
// dimensions.
const epsilon = 1e-9

// New bulk-loads all items into an R-tree. Construction is O(n log n).
func New(items []Item) *Index {
	spatials := make([]rtreego.Spatial, len(items))
	for i, item := range items {
		spatials[i] = &indexedItem{item: item, rect: itemRect(item)}
	}
	// 2D tree with 25..50 children per node, bulk-loaded.
	tree := rtreego.NewTree(2, 25, 50, spatials...)
	return &Index{tree: tree, size: len(items)}
}

// Size returns the number of indexed items.
func (ix *Index) Size() int {
	return ix.size
}

// Query returns the positions of all items whose envelope intersects the
// given bounding box, in ascending position order.
func (ix *Index) Query(minX, minY, maxX, maxY float64) []int {
	rect := itemRect(Item{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
	spatials := ix.tree.SearchIntersect(rect)
	positions := make([]int, 0, len(spatials))
	for _, s := range spatials {
		positions = append(positions, s.(*indexedItem).item.Pos)
	}
	sort.Ints(positions)
	return positions
}

func itemRect(item Item) rtreego.Rect {
	w := item.MaxX - item.MinX
	h := item.MaxY - item.MinY
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{item.MinX, item.MinY}, []float64{w, h})
	return rect
}
