package core

import "math"

// SelfIntersectionTolerance is the smallest ray parameter accepted as a hit.
// Anything closer is treated as the ray re-hitting the surface it left from.
const SelfIntersectionTolerance = 1e-6

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// InfiniteAABB returns a box enclosing all of space
func InfiniteAABB() AABB {
	return AABB{
		Min: Splat(math.Inf(-1)),
		Max: Splat(math.Inf(1)),
	}
}

// Unbounded reports whether the box extends to infinity along any axis
func (aabb AABB) Unbounded() bool {
	return !aabb.Min.IsFinite() || !aabb.Max.IsFinite()
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Centroid returns the center point of the AABB
func (aabb AABB) Centroid() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties go to the later axis.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	x, y, z := math.Abs(size.X), math.Abs(size.Y), math.Abs(size.Z)
	if x > y && x > z {
		return 0
	}
	if y > z {
		return 1
	}
	return 2
}

// InverseDirection returns the component-wise reciprocal of the ray direction.
// It is computed once per query and shared by every slab test of that query.
func InverseDirection(ray Ray) Vec3 {
	return Vec3{1 / ray.Direction.X, 1 / ray.Direction.Y, 1 / ray.Direction.Z}
}

// Hit tests the ray against the box using the slab method.
// The box is rejected when the entry distance is not below closest or the
// exit distance is not beyond the self-intersection tolerance.
func (aabb AABB) Hit(ray Ray, invDir Vec3, closest float64) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		inv := invDir.Axis(axis)

		// Pick near/far slab according to the direction sign (-0 included)
		near, far := aabb.Min.Axis(axis), aabb.Max.Axis(axis)
		if inv < 0 {
			near, far = far, near
		}

		t0 := (near - origin) * inv
		t1 := (far - origin) * inv

		// NaN (0 * Inf) leaves the interval untouched
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return false
		}
	}

	return tMin < closest && tMax > SelfIntersectionTolerance
}
