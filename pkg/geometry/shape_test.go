package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-smallpaint/pkg/core"
)

const tolerance = 1e-9

func vecNear(a, b core.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func mustLens(t *testing.T, axis core.Ray, thickness, radius, front, back float64) Lens {
	t.Helper()
	lens, err := NewLens(axis, thickness, radius, front, back)
	if err != nil {
		t.Fatalf("NewLens failed: %v", err)
	}
	return lens
}

func TestGeometry_NeverReturnsHitsWithinTolerance(t *testing.T) {
	axis := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	shapes := []Geometry{
		FromPlane(NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))),
		FromPlane(NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))),
		FromSphere(NewSphere(core.NewVec3(0, 0, 0), 1)),
		FromSphere(NewSphere(core.NewVec3(0.5, 0, 0), 0.25)),
		FromCylinder(NewCylinder(axis, 2, 0.5, ThroughHole)),
		FromCylinder(NewCylinder(axis, 2, 0.5, SingleCap)),
		FromCylinder(NewCylinder(axis, 2, 0.5, DoubleCap)),
		FromCylinder(NewCylinder(axis, math.Inf(1), 0.5, DoubleCap)),
		FromLens(mustLens(t, axis, 0.4, 1, 2, 3)),
		FromLens(mustLens(t, axis, 1, 1, -2, -3)),
		FromLens(mustLens(t, axis, 0.5, 1, math.Inf(1), -4)),
	}

	random := core.NewRandom(7)
	randomVec := func(scale float64) core.Vec3 {
		return core.NewVec3(
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
			(random.Float64()*2-1)*scale,
		)
	}

	hits := 0
	for i := range shapes {
		shape := &shapes[i]
		for j := 0; j < 2000; j++ {
			ray := core.NewRay(randomVec(3), randomVec(1).Normalize())
			hit, ok := shape.Intersect(ray)
			if !ok {
				continue
			}
			hits++
			if !(hit.T > core.SelfIntersectionTolerance) {
				t.Fatalf("%s: accepted t=%g at or below tolerance", shape.Kind, hit.T)
			}

			bounce := core.NewRay(hit.Point, randomVec(1).Normalize())
			if next, ok := shape.Intersect(bounce); ok && !(next.T > core.SelfIntersectionTolerance) {
				t.Fatalf("%s: accepted t=%g for a ray leaving the surface", shape.Kind, next.T)
			}
		}
	}

	if hits == 0 {
		t.Fatal("Expected some random rays to hit")
	}
}

func TestGeometry_DispatchesByKind(t *testing.T) {
	sphere := FromSphere(NewSphere(core.NewVec3(0, 0, 0), 1))
	if sphere.Kind != KindSphere {
		t.Errorf("Expected kind %v, got %v", KindSphere, sphere.Kind)
	}

	box := sphere.BoundingBox()
	if !vecNear(box.Min, core.NewVec3(-1, -1, -1), tolerance) || !vecNear(box.Max, core.NewVec3(1, 1, 1), tolerance) {
		t.Errorf("Expected unit box, got %v", box)
	}

	if _, ok := sphere.Cylinder(); ok {
		t.Error("Expected sphere not to report a cylinder")
	}

	cylinder := FromCylinder(NewCylinder(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), 1, 1, DoubleCap))
	if c, ok := cylinder.Cylinder(); !ok || c.Cap != DoubleCap {
		t.Errorf("Expected double capped cylinder, got %v %v", c.Cap, ok)
	}
}
