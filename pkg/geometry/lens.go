package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// maxFaceRetries bounds how many times a face intersection is re-cast from
// a rejected hit point. A line crosses a sphere at most twice, but a re-cast
// ray starting on the surface can graze it again through rounding.
// TODO: derive a tight bound from the tolerance instead of the fixed retry count.
const maxFaceRetries = 2

// lensFace is one of the two spherical faces of a lens
type lensFace struct {
	sphere  Sphere
	outward core.Vec3 // Lens axis direction pointing out through this face
	rim     core.Vec3 // Center of the circle where the face meets the wall
	concave bool
	flat    bool // Infinite face radius
}

func newLensFace(center, outward core.Vec3, thickness, radius, faceRadius float64) lensFace {
	rim := center.Add(outward.Multiply(thickness / 2))
	face := lensFace{outward: outward, rim: rim, concave: faceRadius < 0}

	if math.IsInf(faceRadius, 0) {
		face.flat = true
		return face
	}

	// Distance from the rim plane to the face sphere center
	r := math.Abs(faceRadius)
	offset := math.Sqrt(r*r - radius*radius)
	if face.concave {
		face.sphere = NewSphere(rim.Add(outward.Multiply(offset)), r)
	} else {
		face.sphere = NewSphere(rim.Subtract(outward.Multiply(offset)), r)
	}
	return face
}

// sag is how far the face surface departs from the rim plane along the axis
func (f lensFace) sag() float64 {
	if f.flat {
		return 0
	}
	return f.sphere.Radius - f.sphere.Center.Distance(f.rim)
}

// Lens is a circular lens: a custom capped cylinder closed by two spherical
// faces. Positive face radii are convex, negative ones concave.
type Lens struct {
	Axis      core.Ray // Origin at the lens center, unit direction toward the front face
	Thickness float64  // Thickness at the rim
	Radius    float64
	wall      Cylinder
	front     lensFace
	back      lensFace
}

// NewLens validates the lens dimensions and builds its faces
func NewLens(axis core.Ray, thickness, radius, frontRadius, backRadius float64) (Lens, error) {
	if math.Abs(frontRadius) <= radius || math.Abs(backRadius) <= radius {
		return Lens{}, fmt.Errorf("%w: radius %g, faces %g and %g", ErrLensFacesTooShort, radius, frontRadius, backRadius)
	}
	if thickness <= core.SelfIntersectionTolerance || radius/2 <= core.SelfIntersectionTolerance {
		return Lens{}, fmt.Errorf("%w: thickness %g, radius %g", ErrLensTooThin, thickness, radius)
	}

	direction := axis.Direction.Normalize()
	lens := Lens{
		Axis:      core.NewRay(axis.Origin, direction),
		Thickness: thickness,
		Radius:    radius,
		wall:      NewCylinder(core.NewRay(axis.Origin, direction), thickness, radius, CustomCap),
		front:     newLensFace(axis.Origin, direction, thickness, radius, frontRadius),
		back:      newLensFace(axis.Origin, direction.Negate(), thickness, radius, backRadius),
	}

	for _, face := range [2]lensFace{lens.front, lens.back} {
		if face.concave && thickness/2-face.sag() <= core.SelfIntersectionTolerance {
			return Lens{}, fmt.Errorf("%w: sag %g, thickness %g", ErrLensConcaveFaceTooDeep, face.sag(), thickness)
		}
	}

	return lens, nil
}

// Intersect returns the nearest hit among the wall and both faces.
// Normals point out of the lens.
func (l Lens) Intersect(ray core.Ray) (HitRecord, bool) {
	hits := []optionalHit{some(l.wall.Intersect(ray))}
	if !math.IsInf(l.Thickness, 0) {
		hits = append(hits,
			some(l.faceIntersection(ray, l.front, 0)),
			some(l.faceIntersection(ray, l.back, 0)),
		)
	}
	return nearest(hits...)
}

// faceIntersection intersects the face sphere and keeps the hit only if it
// lies on the cap of the sphere that bounds the lens. Rejected hits are
// re-cast from the hit point.
func (l Lens) faceIntersection(ray core.Ray, face lensFace, depth int) (HitRecord, bool) {
	if depth >= maxFaceRetries {
		return HitRecord{}, false
	}

	if face.flat {
		return l.flatFaceIntersection(ray, face)
	}

	hit, ok := face.sphere.Intersect(ray)
	if !ok {
		return HitRecord{}, false
	}

	if l.distanceFromAxis(hit.Point) < l.Radius {
		side := hit.Point.Subtract(face.sphere.Center).Dot(face.outward)
		if face.concave && side < 0 {
			hit.Normal = hit.Normal.Negate()
			return hit, true
		}
		if !face.concave && side > 0 {
			return hit, true
		}
	}

	next, ok := l.faceIntersection(core.NewRay(hit.Point, ray.Direction), face, depth+1)
	if !ok {
		return HitRecord{}, false
	}
	next.T += hit.T
	return next, true
}

// flatFaceIntersection handles faces of infinite radius, which are discs at the rim
func (l Lens) flatFaceIntersection(ray core.Ray, face lensFace) (HitRecord, bool) {
	denominator := ray.Direction.Dot(face.outward)
	if math.Abs(denominator) < parallelEpsilon {
		return HitRecord{}, false
	}

	t := face.rim.Subtract(ray.Origin).Dot(face.outward) / denominator
	if !(t > core.SelfIntersectionTolerance) {
		return HitRecord{}, false
	}

	point := ray.At(t)
	if point.Distance(face.rim) >= l.Radius {
		return HitRecord{}, false
	}
	return HitRecord{Point: point, Normal: face.outward, T: t}, true
}

func (l Lens) distanceFromAxis(p core.Vec3) float64 {
	v := p.Subtract(l.Axis.Origin)
	return v.Subtract(l.Axis.Direction.Multiply(v.Dot(l.Axis.Direction))).Length()
}

// BoundingBox returns a loose box: the union of two spheres of the lens
// radius centered on the rims. A convex face never bulges further than that.
func (l Lens) BoundingBox() core.AABB {
	return Sphere{Center: l.front.rim, Radius: l.Radius}.BoundingBox().
		Union(Sphere{Center: l.back.rim, Radius: l.Radius}.BoundingBox())
}
