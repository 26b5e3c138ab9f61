package geometry

import (
	"errors"

	"github.com/df07/go-smallpaint/pkg/core"
)

// Construction errors
var (
	ErrRefractiveCylinder     = errors.New("geometry: a refractive cylinder must be double capped")
	ErrLensFacesTooShort      = errors.New("geometry: lens face radius must be larger than the lens radius")
	ErrLensTooThin            = errors.New("geometry: lens is too thin")
	ErrLensConcaveFaceTooDeep = errors.New("geometry: concave lens face crosses the lens midplane")
)

// HitRecord contains information about a ray-geometry intersection
type HitRecord struct {
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Unit surface normal at intersection
	T      float64   // Parameter t along the ray, always > core.SelfIntersectionTolerance
}

// Kind tags the variant held by a Geometry
type Kind uint8

const (
	KindPlane Kind = iota
	KindSphere
	KindCylinder
	KindLens
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	case KindLens:
		return "lens"
	default:
		return "unknown"
	}
}

// Geometry is a closed union over the supported primitives.
// Exactly one of the variant fields is meaningful, selected by Kind.
type Geometry struct {
	Kind     Kind
	plane    Plane
	sphere   Sphere
	cylinder Cylinder
	lens     Lens
}

// FromPlane wraps a plane
func FromPlane(p Plane) Geometry { return Geometry{Kind: KindPlane, plane: p} }

// FromSphere wraps a sphere
func FromSphere(s Sphere) Geometry { return Geometry{Kind: KindSphere, sphere: s} }

// FromCylinder wraps a cylinder
func FromCylinder(c Cylinder) Geometry { return Geometry{Kind: KindCylinder, cylinder: c} }

// FromLens wraps a lens
func FromLens(l Lens) Geometry { return Geometry{Kind: KindLens, lens: l} }

// Intersect returns the nearest hit of the ray beyond the self-intersection tolerance
func (g *Geometry) Intersect(ray core.Ray) (HitRecord, bool) {
	switch g.Kind {
	case KindPlane:
		return g.plane.Intersect(ray)
	case KindSphere:
		return g.sphere.Intersect(ray)
	case KindCylinder:
		return g.cylinder.Intersect(ray)
	case KindLens:
		return g.lens.Intersect(ray)
	default:
		return HitRecord{}, false
	}
}

// BoundingBox returns the axis-aligned bounding box of the wrapped primitive
func (g *Geometry) BoundingBox() core.AABB {
	switch g.Kind {
	case KindPlane:
		return g.plane.BoundingBox()
	case KindSphere:
		return g.sphere.BoundingBox()
	case KindCylinder:
		return g.cylinder.BoundingBox()
	case KindLens:
		return g.lens.BoundingBox()
	default:
		return core.InfiniteAABB()
	}
}

// Cylinder returns the wrapped cylinder when Kind is KindCylinder
func (g *Geometry) Cylinder() (Cylinder, bool) {
	return g.cylinder, g.Kind == KindCylinder
}

// nearest picks the closest of several optional hits
func nearest(hits ...optionalHit) (HitRecord, bool) {
	var best HitRecord
	found := false
	for _, h := range hits {
		if h.ok && (!found || h.hit.T < best.T) {
			best = h.hit
			found = true
		}
	}
	return best, found
}

type optionalHit struct {
	hit HitRecord
	ok  bool
}

func some(hit HitRecord, ok bool) optionalHit {
	return optionalHit{hit: hit, ok: ok}
}
