package geometry

import (
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// CapType selects which flat end caps a cylinder has
type CapType uint8

const (
	// ThroughHole is an open tube
	ThroughHole CapType = iota
	// SingleCap closes the bottom end only
	SingleCap
	// DoubleCap closes both ends
	DoubleCap
	// CustomCap is a closed solid whose ends are supplied by the owner
	// (the spherical faces of a lens); no flat caps are tested.
	CustomCap
)

func (c CapType) String() string {
	switch c {
	case ThroughHole:
		return "through-hole"
	case SingleCap:
		return "single-cap"
	case DoubleCap:
		return "double-cap"
	case CustomCap:
		return "custom-cap"
	default:
		return "unknown"
	}
}

// closed reports whether the cylinder bounds a solid, in which case normals
// always point outward.
func (c CapType) closed() bool {
	return c == DoubleCap || c == CustomCap
}

// Cylinder represents a finite or infinite circular cylinder centered on Axis.Origin
type Cylinder struct {
	Axis   core.Ray // Origin at the center, unit direction toward the top cap
	Height float64
	Radius float64
	Cap    CapType
}

// NewCylinder creates a new cylinder. The axis direction is normalized.
func NewCylinder(axis core.Ray, height, radius float64, capType CapType) Cylinder {
	return Cylinder{
		Axis:   core.NewRay(axis.Origin, axis.Direction.Normalize()),
		Height: height,
		Radius: radius,
		Cap:    capType,
	}
}

// Intersect tests if a ray intersects with the cylinder wall or its caps
func (c Cylinder) Intersect(ray core.Ray) (HitRecord, bool) {
	hit, ok := c.surfaceIntersection(ray)

	// Degenerate (infinite) cylinders have no caps
	if !math.IsInf(c.Height, 0) {
		switch c.Cap {
		case SingleCap:
			hit, ok = nearest(some(hit, ok), some(c.capIntersection(ray, false)))
		case DoubleCap:
			hit, ok = nearest(
				some(hit, ok),
				some(c.capIntersection(ray, true)),
				some(c.capIntersection(ray, false)),
			)
		}
	}

	if !ok {
		return HitRecord{}, false
	}

	// Open tubes may be hit from the inside: face the normal against the ray
	if !c.Cap.closed() && hit.Normal.Dot(ray.Direction) > 0 {
		hit.Normal = hit.Normal.Negate()
	}
	return hit, true
}

// surfaceIntersection solves the quadratic of the infinite cylinder and keeps
// the nearest root whose projection on the axis lies within the height
func (c Cylinder) surfaceIntersection(ray core.Ray) (HitRecord, bool) {
	axis := c.Axis.Direction
	delta := ray.Origin.Subtract(c.Axis.Origin)

	dv := ray.Direction.Dot(axis)
	deltaV := delta.Dot(axis)

	// a = |D|² - (D·A)²
	// b = 2[Δ·D - (Δ·A)(D·A)]
	// cc = |Δ|² - (Δ·A)² - r²
	a := ray.Direction.LengthSquared() - dv*dv
	b := 2.0 * (delta.Dot(ray.Direction) - deltaV*dv)
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	// Ray parallel to the axis never crosses the wall
	if math.Abs(a) < parallelEpsilon {
		return HitRecord{}, false
	}

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	halfHeight := c.Height / 2
	var best HitRecord
	found := false
	for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		if !(t > core.SelfIntersectionTolerance) {
			continue
		}
		m := deltaV + t*dv
		if !(math.Abs(m) < halfHeight) {
			continue
		}
		if found && t >= best.T {
			continue
		}
		point := ray.At(t)
		axisPoint := c.Axis.Origin.Add(axis.Multiply(m))
		best = HitRecord{Point: point, Normal: point.Subtract(axisPoint).Normalize(), T: t}
		found = true
	}
	return best, found
}

// capIntersection intersects the top or bottom disc. The returned normal
// points out of the cylinder.
func (c Cylinder) capIntersection(ray core.Ray, top bool) (HitRecord, bool) {
	normal := c.Axis.Direction
	if !top {
		normal = normal.Negate()
	}
	center := c.Axis.Origin.Add(normal.Multiply(c.Height / 2))

	denominator := ray.Direction.Dot(normal)
	if math.Abs(denominator) < parallelEpsilon {
		return HitRecord{}, false
	}

	t := center.Subtract(ray.Origin).Dot(normal) / denominator
	if !(t > core.SelfIntersectionTolerance) {
		return HitRecord{}, false
	}

	point := ray.At(t)
	if point.Distance(center) >= c.Radius {
		return HitRecord{}, false
	}
	return HitRecord{Point: point, Normal: normal, T: t}, true
}

// BoundingBox returns the tight box around both end discs. Infinite
// cylinders are unbounded along every axis the axis direction touches.
func (c Cylinder) BoundingBox() core.AABB {
	axis := c.Axis.Direction

	// Half extent of a disc of radius r perpendicular to the axis
	extent := core.NewVec3(
		c.Radius*math.Sqrt(math.Max(0, 1-axis.X*axis.X)),
		c.Radius*math.Sqrt(math.Max(0, 1-axis.Y*axis.Y)),
		c.Radius*math.Sqrt(math.Max(0, 1-axis.Z*axis.Z)),
	)

	if math.IsInf(c.Height, 0) {
		box := core.NewAABB(c.Axis.Origin.Subtract(extent), c.Axis.Origin.Add(extent))
		if math.Abs(axis.X) > parallelEpsilon {
			box.Min.X, box.Max.X = math.Inf(-1), math.Inf(1)
		}
		if math.Abs(axis.Y) > parallelEpsilon {
			box.Min.Y, box.Max.Y = math.Inf(-1), math.Inf(1)
		}
		if math.Abs(axis.Z) > parallelEpsilon {
			box.Min.Z, box.Max.Z = math.Inf(-1), math.Inf(1)
		}
		return box
	}

	top := c.Axis.Origin.Add(axis.Multiply(c.Height / 2))
	bottom := c.Axis.Origin.Subtract(axis.Multiply(c.Height / 2))

	return core.NewAABB(
		top.Min(bottom).Subtract(extent),
		top.Max(bottom).Add(extent),
	)
}
