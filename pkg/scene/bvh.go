package scene

import (
	"math"
	"slices"
	"sort"

	"github.com/df07/go-smallpaint/pkg/core"
)

// DefaultMaxLeafSize is the leaf size used when none is configured
const DefaultMaxLeafSize = 1

// BVHNode is one entry of the flattened hierarchy. Branches reference their
// children by index into BVH.Nodes; leaves reference the range
// [First, First+Count) of the bounded objects.
type BVHNode struct {
	BoundingBox core.AABB
	Axis        int // Split axis of a branch (0=X, 1=Y, 2=Z)
	Left        int
	Right       int
	First       int
	Count       int
}

// IsLeaf reports whether the node holds objects rather than children
func (n *BVHNode) IsLeaf() bool {
	return n.Count > 0
}

// BVH partitions bounded objects into a binary tree stored as a flat node
// slice, root first. Objects with an unbounded box are kept aside and tested
// on every query.
type BVH struct {
	Nodes        []BVHNode
	bounded      []*Object
	unbounded    []*Object
	needsRebuild bool
}

// NewBVH creates an empty hierarchy
func NewBVH() *BVH {
	return &BVH{}
}

// Insert adds an object. The tree is invalid until the next Rebuild.
func (b *BVH) Insert(object *Object) {
	if object.BoundingBox().Unbounded() {
		b.unbounded = append(b.unbounded, object)
	} else {
		b.bounded = append(b.bounded, object)
	}
	b.needsRebuild = true
}

// Len returns the number of stored objects
func (b *BVH) Len() int {
	return len(b.bounded) + len(b.unbounded)
}

// NeedsRebuild reports whether objects were inserted since the last Rebuild
func (b *BVH) NeedsRebuild() bool {
	return b.needsRebuild
}

// Rebuild discards the tree and partitions the bounded objects again.
// The bounded objects are reordered as a side effect.
func (b *BVH) Rebuild(maxLeafSize int) {
	if maxLeafSize < 1 {
		maxLeafSize = 1
	}
	b.Nodes = b.Nodes[:0]
	if len(b.bounded) > 0 {
		b.Nodes = slices.Grow(b.Nodes, 2*len(b.bounded)-1)
		b.buildBVH(b.bounded, 0, maxLeafSize)
	}
	b.needsRebuild = false
}

// buildBVH recursively appends the subtree over objects with a median split
// along the longest axis and returns the index of its root
func (b *BVH) buildBVH(objects []*Object, first, maxLeafSize int) int {
	// Calculate bounding box for all objects
	boundingBox := objects[0].BoundingBox()
	for i := 1; i < len(objects); i++ {
		boundingBox = boundingBox.Union(objects[i].BoundingBox())
	}

	index := len(b.Nodes)
	b.Nodes = append(b.Nodes, BVHNode{BoundingBox: boundingBox})

	// Base case: few objects - create leaf node over the current range
	if len(objects) <= maxLeafSize {
		b.Nodes[index].First = first
		b.Nodes[index].Count = len(objects)
		return index
	}

	axis := boundingBox.LongestAxis()
	sortObjectsByAxis(objects, axis)

	// Split in the middle
	mid := len(objects) / 2
	left := b.buildBVH(objects[:mid], first, maxLeafSize)
	right := b.buildBVH(objects[mid:], first+mid, maxLeafSize)

	node := &b.Nodes[index]
	node.Axis = axis
	node.Left = left
	node.Right = right
	return index
}

// sortObjectsByAxis sorts objects by their bounding box centroid along the specified axis
func sortObjectsByAxis(objects []*Object, axis int) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].BoundingBox().Centroid().Axis(axis) < objects[j].BoundingBox().Centroid().Axis(axis)
	})
}

// FindIntersection returns the nearest hit. It reports no hit while the
// tree is stale.
func (b *BVH) FindIntersection(ray core.Ray) (Intersection, bool) {
	if b.needsRebuild {
		return Intersection{}, false
	}

	best, found := nearestIntersection(b.unbounded, ray, math.Inf(1))
	if len(b.Nodes) == 0 {
		return best, found
	}

	closest := math.Inf(1)
	if found {
		closest = best.T
	}
	if hit, ok := b.hitNode(0, ray, core.InverseDirection(ray), closest); ok {
		return hit, true
	}
	return best, found
}

// hitNode descends left then right. The right child is bounded by the left
// child's hit, so on equal distances the left hit is kept.
func (b *BVH) hitNode(index int, ray core.Ray, invDir core.Vec3, closest float64) (Intersection, bool) {
	node := &b.Nodes[index]
	if !node.BoundingBox.Hit(ray, invDir, closest) {
		return Intersection{}, false
	}

	if node.IsLeaf() {
		return nearestIntersection(b.bounded[node.First:node.First+node.Count], ray, closest)
	}

	leftHit, leftOK := b.hitNode(node.Left, ray, invDir, closest)
	if leftOK {
		closest = leftHit.T
	}
	if rightHit, ok := b.hitNode(node.Right, ray, invDir, closest); ok {
		return rightHit, true
	}
	return leftHit, leftOK
}

// getStats returns statistics about the BVH structure
func (b *BVH) getStats() bvhStats {
	if len(b.Nodes) == 0 {
		return bvhStats{}
	}

	stats := bvhStats{}
	b.collectStats(0, 0, &stats)

	if stats.leafNodes > 0 {
		stats.avgDepth = stats.avgDepth / float64(stats.leafNodes)
	}

	return stats
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes   int
	leafNodes    int
	maxDepth     int
	avgDepth     float64
	totalObjects int
}

// collectStats recursively collects statistics about the BVH
func (b *BVH) collectStats(index int, depth int, stats *bvhStats) {
	node := &b.Nodes[index]
	stats.totalNodes++

	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}

	if node.IsLeaf() {
		stats.leafNodes++
		stats.totalObjects += node.Count
		stats.avgDepth += float64(depth)
		return
	}

	b.collectStats(node.Left, depth+1, stats)
	b.collectStats(node.Right, depth+1, stats)
}
