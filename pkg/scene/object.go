package scene

import (
	"fmt"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/geometry"
)

// Material selects how light leaves a surface
type Material uint8

const (
	// Diffuse scatters light in a cosine-weighted lobe around the normal
	Diffuse Material = iota
	// Specular is an ideal mirror
	Specular
	// Refractive is a dielectric using the global refraction index
	Refractive
)

func (m Material) String() string {
	switch m {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case Refractive:
		return "refractive"
	default:
		return "unknown"
	}
}

// Object is a primitive with its surface properties
type Object struct {
	Color    core.Vec3 // Per-channel attenuation
	Emission float64   // Emitted radiance, broadcast to all channels
	Material Material
	Geometry geometry.Geometry
}

// Intersection is the nearest hit of a ray against a scene.
// Object points into the scene that produced it and is only valid while
// that scene is not modified.
type Intersection struct {
	Object *Object
	Point  core.Vec3
	Normal core.Vec3
	T      float64
}

// NewPlane creates an object wrapping an infinite plane
func NewPlane(color core.Vec3, emission float64, material Material, point, normal core.Vec3) *Object {
	return &Object{
		Color:    color,
		Emission: emission,
		Material: material,
		Geometry: geometry.FromPlane(geometry.NewPlane(point, normal)),
	}
}

// NewSphere creates an object wrapping a sphere
func NewSphere(color core.Vec3, emission float64, material Material, center core.Vec3, radius float64) *Object {
	return &Object{
		Color:    color,
		Emission: emission,
		Material: material,
		Geometry: geometry.FromSphere(geometry.NewSphere(center, radius)),
	}
}

// NewCylinder creates an object wrapping a cylinder. Refractive cylinders
// must be closed at both ends.
func NewCylinder(color core.Vec3, emission float64, material Material, axis core.Ray, height, radius float64, caps geometry.CapType) (*Object, error) {
	if material == Refractive && caps != geometry.DoubleCap {
		return nil, fmt.Errorf("%w: got %s", geometry.ErrRefractiveCylinder, caps)
	}
	return &Object{
		Color:    color,
		Emission: emission,
		Material: material,
		Geometry: geometry.FromCylinder(geometry.NewCylinder(axis, height, radius, caps)),
	}, nil
}

// NewLens creates an object wrapping a lens. Positive face radii are convex,
// negative ones concave.
func NewLens(color core.Vec3, emission float64, material Material, axis core.Ray, thickness, radius, frontRadius, backRadius float64) (*Object, error) {
	lens, err := geometry.NewLens(axis, thickness, radius, frontRadius, backRadius)
	if err != nil {
		return nil, err
	}
	return &Object{
		Color:    color,
		Emission: emission,
		Material: material,
		Geometry: geometry.FromLens(lens),
	}, nil
}

// Intersect tests the ray against the object's geometry
func (o *Object) Intersect(ray core.Ray) (Intersection, bool) {
	hit, ok := o.Geometry.Intersect(ray)
	if !ok {
		return Intersection{}, false
	}
	return Intersection{Object: o, Point: hit.Point, Normal: hit.Normal, T: hit.T}, true
}

// BoundingBox returns the bounding box of the object's geometry
func (o *Object) BoundingBox() core.AABB {
	return o.Geometry.BoundingBox()
}
