package geometry

import (
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// parallelEpsilon is the largest |d·n| treated as a ray running parallel to a surface
const parallelEpsilon = 1e-12

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal vector
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) Plane {
	return Plane{
		Point:  point,
		Normal: normal.Normalize(),
	}
}

// Intersect tests if a ray intersects with the plane.
// The stored normal is returned when the ray arrives from the side it points
// toward, its negation otherwise.
func (p Plane) Intersect(ray core.Ray) (HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays (and zero-length directions) never hit
	if math.Abs(denominator) < parallelEpsilon {
		return HitRecord{}, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !(t > core.SelfIntersectionTolerance) {
		return HitRecord{}, false
	}

	normal := p.Normal
	if denominator > 0 {
		normal = normal.Negate()
	}

	return HitRecord{Point: ray.At(t), Normal: normal, T: t}, true
}

// BoundingBox returns a zero-width slab for axis-aligned planes and an
// infinite box otherwise. Either way the box is unbounded.
func (p Plane) BoundingBox() core.AABB {
	box := core.InfiniteAABB()

	switch getAxisAlignment(p.Normal) {
	case XAxisAligned:
		box.Min.X, box.Max.X = p.Point.X, p.Point.X
	case YAxisAligned:
		box.Min.Y, box.Max.Y = p.Point.Y, p.Point.Y
	case ZAxisAligned:
		box.Min.Z, box.Max.Z = p.Point.Z, p.Point.Z
	}

	return box
}

// AxisAlignment describes which coordinate axis a normal is parallel to
type AxisAlignment int

const (
	NotAxisAligned AxisAlignment = iota
	XAxisAligned
	YAxisAligned
	ZAxisAligned
)

// getAxisAlignment reports the coordinate axis a unit normal is parallel to
func getAxisAlignment(normal core.Vec3) AxisAlignment {
	const tolerance = 1e-9

	switch {
	case math.Abs(math.Abs(normal.X)-1) < tolerance:
		return XAxisAligned
	case math.Abs(math.Abs(normal.Y)-1) < tolerance:
		return YAxisAligned
	case math.Abs(math.Abs(normal.Z)-1) < tolerance:
		return ZAxisAligned
	default:
		return NotAxisAligned
	}
}
