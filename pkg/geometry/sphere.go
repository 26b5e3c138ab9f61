package geometry

import (
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) Sphere {
	return Sphere{
		Center: center,
		Radius: radius,
	}
}

// Intersect tests if a ray intersects with the sphere.
// The smaller root beyond the tolerance wins, falling back to the larger one.
// The normal always points away from the center.
func (s Sphere) Intersect(ray core.Ray) (HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return HitRecord{}, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if !(root > core.SelfIntersectionTolerance) {
		root = (-halfB + sqrtD) / a
		if !(root > core.SelfIntersectionTolerance) {
			return HitRecord{}, false
		}
	}

	point := ray.At(root)
	return HitRecord{
		Point:  point,
		Normal: point.Subtract(s.Center).Normalize(),
		T:      root,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s Sphere) BoundingBox() core.AABB {
	radius := core.Splat(math.Abs(s.Radius))
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
