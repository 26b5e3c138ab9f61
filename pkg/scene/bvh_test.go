package scene

import (
	"math"
	"testing"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/geometry"
)

// sphereRow creates n unit-diameter spheres along the X axis
func sphereRow(n int) []*Object {
	objects := make([]*Object, n)
	for i := 0; i < n; i++ {
		objects[i] = NewSphere(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(float64(i)+0.5, 0.5, 0.5), 0.5)
	}
	return objects
}

func newBVH(objects []*Object, maxLeafSize int) *BVH {
	bvh := NewBVH()
	for _, object := range objects {
		bvh.Insert(object)
	}
	bvh.Rebuild(maxLeafSize)
	return bvh
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	// Exactly maxLeafSize objects - should create single leaf
	bvh := newBVH(sphereRow(8), 8)
	stats := bvh.getStats()

	if stats.totalNodes != 1 {
		t.Errorf("Expected 1 node for 8 objects, got %d", stats.totalNodes)
	}
	if stats.leafNodes != 1 {
		t.Errorf("Expected 1 leaf node for 8 objects, got %d", stats.leafNodes)
	}

	// One more object - should split
	bvh = newBVH(sphereRow(9), 8)
	stats = bvh.getStats()

	if stats.totalNodes == 1 {
		t.Errorf("Expected split for 9 objects, but got single node")
	}
	if stats.leafNodes < 2 {
		t.Errorf("Expected at least 2 leaf nodes after split, got %d", stats.leafNodes)
	}
	if bvh.Nodes[0].Axis != 0 {
		t.Errorf("Expected split along X, got axis %d", bvh.Nodes[0].Axis)
	}
}

func TestBVH_StatsCollection(t *testing.T) {
	bvh := newBVH(sphereRow(20), 1)
	stats := bvh.getStats()

	if stats.totalObjects != 20 {
		t.Errorf("Expected 20 total objects, got %d", stats.totalObjects)
	}
	if stats.leafNodes != 20 {
		t.Errorf("Expected 20 leaves with max leaf size 1, got %d", stats.leafNodes)
	}
	if stats.totalNodes != 39 {
		t.Errorf("Expected 39 nodes in a full binary tree of 20 leaves, got %d", stats.totalNodes)
	}
	if stats.maxDepth != 5 {
		t.Errorf("Expected max depth 5, got %d", stats.maxDepth)
	}
}

func TestBVH_LeafRangesCoverReorderedObjects(t *testing.T) {
	objects := sphereRow(13)
	// Reverse insertion order so the build has to reorder
	for i, j := 0, len(objects)-1; i < j; i, j = i+1, j-1 {
		objects[i], objects[j] = objects[j], objects[i]
	}
	bvh := newBVH(objects, 3)

	var walk func(index int)
	seen := 0
	walk = func(index int) {
		node := bvh.Nodes[index]
		if node.IsLeaf() {
			for _, object := range bvh.bounded[node.First : node.First+node.Count] {
				box := object.BoundingBox()
				if box.Union(node.BoundingBox) != node.BoundingBox {
					t.Errorf("Object box %v escapes leaf box %v", box, node.BoundingBox)
				}
				seen++
			}
			return
		}
		walk(node.Left)
		walk(node.Right)
	}
	walk(0)

	if seen != 13 {
		t.Errorf("Expected leaves to cover 13 objects, got %d", seen)
	}
	for i := 1; i < len(bvh.bounded); i++ {
		if bvh.bounded[i-1].BoundingBox().Centroid().X > bvh.bounded[i].BoundingBox().Centroid().X {
			t.Fatalf("Expected objects sorted along X after build")
		}
	}
}

func TestBVH_EmptyAndUnboundedOnly(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))

	empty := newBVH(nil, 1)
	if len(empty.Nodes) != 0 {
		t.Error("Expected no nodes for empty BVH")
	}
	if _, ok := empty.FindIntersection(ray); ok {
		t.Error("Expected no hit for empty BVH")
	}

	wall := NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(3, 0, 0), core.NewVec3(-1, 0, 0))
	planes := newBVH([]*Object{wall}, 1)
	if len(planes.Nodes) != 0 {
		t.Error("Expected planes to stay out of the tree")
	}
	hit, ok := planes.FindIntersection(ray)
	if !ok || hit.Object != wall || math.Abs(hit.T-3) > 1e-9 {
		t.Errorf("Expected wall hit at t=3, got %v %v", hit.T, ok)
	}
}

func TestBVH_FailsClosedUntilRebuilt(t *testing.T) {
	wall := NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(3, 0, 0), core.NewVec3(-1, 0, 0))
	ray := core.NewRay(core.NewVec3(0, 0.5, 0.5), core.NewVec3(1, 0, 0))

	bvh := newBVH([]*Object{wall}, 1)
	if _, ok := bvh.FindIntersection(ray); !ok {
		t.Fatal("Expected hit after rebuild")
	}

	tests := []struct {
		name   string
		object *Object
	}{
		{"bounded insert", sphereRow(1)[0]},
		{"unbounded insert", NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bvh.Insert(tt.object)
			if !bvh.NeedsRebuild() {
				t.Fatal("Expected insert to require a rebuild")
			}
			for i := 0; i < 3; i++ {
				if _, ok := bvh.FindIntersection(ray); ok {
					t.Fatal("Expected no hit while the tree is stale")
				}
			}
			bvh.Rebuild(1)
			if _, ok := bvh.FindIntersection(ray); !ok {
				t.Fatal("Expected hit after rebuild")
			}
		})
	}
}

func TestBVH_EqualDistanceKeepsLeftChild(t *testing.T) {
	// Two coincident spheres end up in separate leaves in insertion order
	first := NewSphere(core.NewVec3(1, 0, 0), 0, Diffuse, core.NewVec3(0, 0, -5), 1)
	second := NewSphere(core.NewVec3(0, 1, 0), 0, Diffuse, core.NewVec3(0, 0, -5), 1)
	bvh := newBVH([]*Object{first, second}, 1)

	if bvh.Nodes[0].IsLeaf() {
		t.Fatal("Expected a branch with two leaves")
	}

	hit, ok := bvh.FindIntersection(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Object != first {
		t.Error("Expected the left child's object to win an equal-distance tie")
	}
	if math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("Expected t=4, got t=%f", hit.T)
	}
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := core.NewRandom(1234)
	uniform := func(lo, hi float64) float64 { return lo + random.Float64()*(hi-lo) }
	randomPoint := func() core.Vec3 {
		return core.NewVec3(uniform(-3, 3), uniform(-3, 3), uniform(-6, 1))
	}

	var objects []*Object
	for i := 0; i < 40; i++ {
		objects = append(objects, NewSphere(core.NewVec3(1, 1, 1), 0, Diffuse, randomPoint(), uniform(0.05, 0.6)))
	}
	for i := 0; i < 15; i++ {
		axis := core.NewRay(randomPoint(), core.NewVec3(uniform(-1, 1), uniform(-1, 1), uniform(-1, 1)))
		cylinder, err := NewCylinder(core.NewVec3(1, 1, 1), 0, Diffuse, axis, uniform(0.2, 2), uniform(0.05, 0.5), geometry.CapType(i%3))
		if err != nil {
			t.Fatal(err)
		}
		objects = append(objects, cylinder)
	}
	for i := 0; i < 10; i++ {
		axis := core.NewRay(randomPoint(), core.NewVec3(uniform(-1, 1), uniform(-1, 1), uniform(-1, 1)))
		lens, err := NewLens(core.NewVec3(1, 1, 1), 0, Refractive, axis, 0.3, 0.5, uniform(0.6, 3), -uniform(3, 6))
		if err != nil {
			t.Fatal(err)
		}
		objects = append(objects, lens)
	}
	objects = append(objects,
		NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(0, -2.75, 0), core.NewVec3(0, 1, 0)),
		NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(0, 0, -5.5), core.NewVec3(0, 0, 1)),
		NewPlane(core.NewVec3(1, 1, 1), 0, Diffuse, core.NewVec3(2, 0, 0), core.NewVec3(-1, 0.2, 0)),
	)

	linear := NewLinear()
	for _, object := range objects {
		linear.Insert(object)
	}

	rays := make([]core.Ray, 3000)
	for i := range rays {
		rays[i] = core.NewRay(randomPoint(), core.NewVec3(uniform(-1, 1), uniform(-1, 1), uniform(-1, 1)).Normalize())
	}

	for _, maxLeafSize := range []int{1, 2, 4, 16} {
		bvh := newBVH(objects, maxLeafSize)
		hits := 0
		for i, ray := range rays {
			want, wantOK := linear.FindIntersection(ray)
			got, gotOK := bvh.FindIntersection(ray)
			if wantOK != gotOK {
				t.Fatalf("leaf size %d, ray %d: linear hit=%t, bvh hit=%t", maxLeafSize, i, wantOK, gotOK)
			}
			if !wantOK {
				continue
			}
			hits++
			if math.Abs(want.T-got.T) > 1e-9 {
				t.Fatalf("leaf size %d, ray %d: linear t=%f, bvh t=%f", maxLeafSize, i, want.T, got.T)
			}
		}
		if hits == 0 {
			t.Fatalf("leaf size %d: expected some hits", maxLeafSize)
		}
	}
}
