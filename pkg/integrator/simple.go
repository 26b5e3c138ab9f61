package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/sampler"
	"github.com/df07/go-smallpaint/pkg/scene"
	"github.com/df07/go-smallpaint/pkg/terminator"
)

// SimpleTracer is the plain path tracer. Diffuse bounces offset the normal
// by a hemisphere sample instead of rotating the sample into the normal's
// basis, and glass always refracts. Paths past the critical angle are
// dropped rather than reflected.
type SimpleTracer struct {
	terminator terminator.Terminator
	sampler    sampler.Sampler
}

// NewSimpleTracer creates a tracer without Fresnel reflection
func NewSimpleTracer(t terminator.Terminator, s sampler.Sampler) *SimpleTracer {
	return &SimpleTracer{
		terminator: t,
		sampler:    s,
	}
}

// Trace computes the radiance for a single ray
func (st *SimpleTracer) Trace(ray core.Ray, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3 {
	if st.terminator.Terminate(depth, random) {
		return core.Vec3{}
	}

	hit, isHit := s.FindIntersection(ray)
	if !isHit {
		return core.Vec3{}
	}

	rrFactor := st.terminator.Factor(depth)
	direction := ray.Direction.Normalize()

	normal := hit.Normal
	eta := 1 / params.RefractionIndex
	if normal.Dot(direction) > 0 {
		normal = normal.Negate()
		eta = params.RefractionIndex
	}

	colorEmitted := core.Splat(hit.Object.Emission * rrFactor)

	var colorScattered core.Vec3
	switch hit.Object.Material {
	case scene.Diffuse:
		bounce := st.bounceDirection(normal, random)
		incoming := st.Trace(core.NewRay(hit.Point, bounce), s, params, depth+1, random)
		colorScattered = incoming.MultiplyVec(hit.Object.Color).Multiply(bounce.Dot(normal) * diffuseAttenuation)
	case scene.Specular:
		colorScattered = st.Trace(core.NewRay(hit.Point, reflect(direction, normal)), s, params, depth+1, random)
	case scene.Refractive:
		bounce, ok := refract(direction, normal, eta)
		if !ok {
			return colorEmitted
		}
		colorScattered = st.Trace(core.NewRay(hit.Point, bounce), s, params, depth+1, random)
	}

	return colorEmitted.Add(colorScattered.Multiply(rrFactor))
}

// bounceDirection offsets the normal by a hemisphere sample
func (st *SimpleTracer) bounceDirection(normal core.Vec3, random *rand.Rand) core.Vec3 {
	return normal.Add(st.sampler.Hemisphere(random)).Normalize()
}

// refract bends d through a surface facing n by Snell's law with relative
// index eta. ok is false past the critical angle.
func refract(d, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosIncident := -n.Dot(d)
	cosTransmitted2 := 1 - eta*eta*(1-cosIncident*cosIncident)
	if cosTransmitted2 <= 0 {
		return core.Vec3{}, false
	}
	return d.Multiply(eta).Add(n.Multiply(eta*cosIncident - math.Sqrt(cosTransmitted2))).Normalize(), true
}
