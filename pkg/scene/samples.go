package scene

import (
	"fmt"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/geometry"
)

const (
	baseEmission  = 0.0
	lightEmission = 5000.0
)

// Sample describes a bundled scene
type Sample struct {
	Name        string
	Description string
	populate    func(s *Scene) error
}

var samples = []Sample{
	{
		Name:        "three-spheres",
		Description: "Mirror, glass and diffuse spheres in a colored room",
		populate:    populateThreeSpheres,
	},
	{
		Name:        "three-cylinders",
		Description: "Open, single and double capped cylinders each lit from inside",
		populate:    populateThreeCylinders,
	},
	{
		Name:        "lenses-and-bars",
		Description: "Convex, meniscus and concave lenses in front of colored bars",
		populate:    populateLensesAndBars,
	},
	{
		Name:        "ring-caustics",
		Description: "Caustic cast by a mirrored ring on the back wall",
		populate:    populateRingCaustics,
	},
}

// Samples lists the bundled scenes
func Samples() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

// Build creates the sample scene with the given storage, ready for queries
func (s Sample) Build(kind StorageKind, maxLeafSize int) (*Scene, error) {
	sc := New(kind)
	if err := s.populate(sc); err != nil {
		return nil, fmt.Errorf("scene: building %s: %w", s.Name, err)
	}
	sc.Rebuild(maxLeafSize)
	return sc, nil
}

// Lookup builds the named sample scene
func Lookup(name string, kind StorageKind, maxLeafSize int) (*Scene, error) {
	for _, sample := range samples {
		if sample.Name == name {
			return sample.Build(kind, maxLeafSize)
		}
	}
	return nil, fmt.Errorf("scene: unknown sample scene %q", name)
}

// addRoom adds the six walls shared by every sample scene
func addRoom(s *Scene) {
	gray := core.NewVec3(6, 6, 6)
	s.Insert(NewPlane(gray, baseEmission, Diffuse, core.NewVec3(-3, 0, 0), core.NewVec3(1, 0, 0)))
	s.Insert(NewPlane(gray, baseEmission, Diffuse, core.NewVec3(2.5, 0, 0), core.NewVec3(-1, 0, 0)))
	s.Insert(NewPlane(core.NewVec3(10, 2, 2), baseEmission, Diffuse, core.NewVec3(0, -2.75, 0), core.NewVec3(0, 1, 0)))
	s.Insert(NewPlane(core.NewVec3(2, 10, 2), baseEmission, Diffuse, core.NewVec3(0, 2.75, 0), core.NewVec3(0, -1, 0)))
	s.Insert(NewPlane(gray, baseEmission, Diffuse, core.NewVec3(0, 0, -5.5), core.NewVec3(0, 0, 1)))
	s.Insert(NewPlane(gray, baseEmission, Diffuse, core.NewVec3(0, 0, 0.5), core.NewVec3(0, 0, -1)))
}

func addLight(s *Scene, center core.Vec3, radius float64) {
	s.Insert(NewSphere(core.Vec3{}, lightEmission, Diffuse, center, radius))
}

func populateThreeSpheres(s *Scene) error {
	s.Insert(NewSphere(core.NewVec3(4, 8, 4), baseEmission, Specular, core.NewVec3(1.45, -0.75, -4.4), 1.05))
	s.Insert(NewSphere(core.NewVec3(10, 10, 1), baseEmission, Refractive, core.NewVec3(2.05, 2.0, -3.7), 0.5))
	s.Insert(NewSphere(core.NewVec3(4, 4, 12), baseEmission, Diffuse, core.NewVec3(1.95, -1.75, -3.1), 0.6))
	addRoom(s)
	addLight(s, core.NewVec3(-1.9, 0, -3), 0.5)
	return nil
}

func populateThreeCylinders(s *Scene) error {
	addRoom(s)

	xAxis := core.NewVec3(1, 0, 0)
	cylinders := []struct {
		color  core.Vec3
		center core.Vec3
		caps   geometry.CapType
	}{
		{core.NewVec3(8, 4, 4), core.NewVec3(0, 0, -5), geometry.ThroughHole},
		{core.NewVec3(4, 8, 4), core.NewVec3(0, -2.25, -4), geometry.SingleCap},
		{core.NewVec3(4, 4, 8), core.NewVec3(0, 2.25, -4), geometry.DoubleCap},
	}
	for _, c := range cylinders {
		object, err := NewCylinder(c.color, baseEmission, Diffuse, core.NewRay(c.center, xAxis), 1.25, 0.5, c.caps)
		if err != nil {
			return err
		}
		s.Insert(object)
		addLight(s, c.center, 0.375)
	}

	addLight(s, core.NewVec3(-1.9, 0, -3), 0.5)
	return nil
}

func populateLensesAndBars(s *Scene) error {
	addRoom(s)
	addLight(s, core.NewVec3(-1.9, 0, -3), 0.5)

	lenses := []struct {
		center      core.Vec3
		front, back float64
	}{
		{core.NewVec3(0, 0, -3), 1, 1},
		{core.NewVec3(0, -1, -3), 1, -5},
		{core.NewVec3(0, 1, -3), -5, -5},
	}
	for _, l := range lenses {
		object, err := NewLens(core.Vec3{}, baseEmission, Refractive,
			core.NewRay(l.center, core.NewVec3(0, 0, -1)), 1.0/16, 0.5, l.front, l.back)
		if err != nil {
			return err
		}
		s.Insert(object)
	}

	colors := []core.Vec3{
		core.NewVec3(4, 4, 8),
		core.NewVec3(4, 8, 8),
		core.NewVec3(4, 8, 4),
		core.NewVec3(8, 8, 4),
		core.NewVec3(8, 4, 4),
		core.NewVec3(8, 4, 8),
	}
	for i := -16; i < 16; i++ {
		axis := core.NewRay(core.NewVec3(0, float64(i)/8, -4), core.NewVec3(1, 0, 0))
		object, err := NewCylinder(colors[(i+16)%len(colors)], baseEmission, Diffuse, axis, 2.5, 0.125, geometry.DoubleCap)
		if err != nil {
			return err
		}
		s.Insert(object)
	}
	return nil
}

func populateRingCaustics(s *Scene) error {
	addRoom(s)
	addLight(s, core.NewVec3(1.5, 0, -4.5), 0.5)

	ring, err := NewCylinder(core.NewVec3(4, 4, 4), baseEmission, Specular,
		core.NewRay(core.NewVec3(-1, 0, -5.5), core.NewVec3(0, 0, 1)), 0.5, 1.0, geometry.ThroughHole)
	if err != nil {
		return err
	}
	s.Insert(ring)
	return nil
}
