package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/sampler"
	"github.com/df07/go-smallpaint/pkg/scene"
	"github.com/df07/go-smallpaint/pkg/terminator"
)

// diffuseAttenuation scales every diffuse bounce
const diffuseAttenuation = 0.1

// PathTracer implements unidirectional path tracing with Fresnel dielectrics
type PathTracer struct {
	terminator terminator.Terminator
	sampler    sampler.Sampler
}

// NewPathTracer creates a new path tracer
func NewPathTracer(t terminator.Terminator, s sampler.Sampler) *PathTracer {
	return &PathTracer{
		terminator: t,
		sampler:    s,
	}
}

// Trace computes the radiance for a single ray. Recursion depth is bounded
// only by the terminator.
func (pt *PathTracer) Trace(ray core.Ray, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3 {
	if pt.terminator.Terminate(depth, random) {
		return core.Vec3{}
	}

	hit, isHit := s.FindIntersection(ray)
	if !isHit {
		return core.Vec3{}
	}

	rrFactor := pt.terminator.Factor(depth)
	direction := ray.Direction.Normalize()

	// Face the normal against the incoming ray and remember which side we came from
	normal := hit.Normal
	entering := normal.Dot(direction) <= 0
	if !entering {
		normal = normal.Negate()
	}

	colorEmitted := core.Splat(hit.Object.Emission * rrFactor)

	var colorScattered core.Vec3
	switch hit.Object.Material {
	case scene.Diffuse:
		colorScattered = pt.calculateDiffuseColor(hit, normal, s, params, depth, random)
	case scene.Specular:
		colorScattered = pt.calculateSpecularColor(hit, direction, normal, s, params, depth, random)
	case scene.Refractive:
		colorScattered = pt.calculateRefractiveColor(hit, direction, normal, entering, s, params, depth, random)
	}

	return colorEmitted.Add(colorScattered.Multiply(rrFactor))
}

// calculateDiffuseColor bounces into the hemisphere around the normal
func (pt *PathTracer) calculateDiffuseColor(hit scene.Intersection, normal core.Vec3, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3 {
	a, b := normal.Orthonormal()
	local := pt.sampler.Hemisphere(random).Normalize()

	// Rotate the z-up sample into the basis around the normal
	bounce := a.Multiply(local.X).Add(b.Multiply(local.Y)).Add(normal.Multiply(local.Z))
	cosine := bounce.Dot(normal)

	incoming := pt.Trace(core.NewRay(hit.Point, bounce), s, params, depth+1, random)
	return incoming.MultiplyVec(hit.Object.Color).Multiply(cosine * diffuseAttenuation)
}

// calculateSpecularColor follows the mirror reflection without attenuation
func (pt *PathTracer) calculateSpecularColor(hit scene.Intersection, direction, normal core.Vec3, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3 {
	reflected := reflect(direction, normal)
	return pt.Trace(core.NewRay(hit.Point, reflected), s, params, depth+1, random)
}

// calculateRefractiveColor picks reflection or refraction with Schlick's
// approximation of the Fresnel reflectance
func (pt *PathTracer) calculateRefractiveColor(hit scene.Intersection, direction, normal core.Vec3, entering bool, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3 {
	eta := params.RefractionIndex
	if entering {
		eta = 1 / params.RefractionIndex
	}

	cosIncident := -normal.Dot(direction)
	cosTransmitted2 := 1 - eta*eta*(1-cosIncident*cosIncident)

	r0 := (1 - params.RefractionIndex) / (1 + params.RefractionIndex)
	r0 *= r0
	reflectance := r0 + (1-r0)*math.Pow(1-cosIncident, 5)

	var bounce core.Vec3
	if cosTransmitted2 > 0 && random.Float64() > reflectance {
		bounce = direction.Multiply(eta).
			Add(normal.Multiply(eta*cosIncident - math.Sqrt(cosTransmitted2))).
			Normalize()
	} else {
		// Total internal reflection or a Fresnel reflection
		bounce = reflect(direction, normal)
	}

	return pt.Trace(core.NewRay(hit.Point, bounce), s, params, depth+1, random)
}

// reflect mirrors d about n
func reflect(d, n core.Vec3) core.Vec3 {
	return d.Subtract(n.Multiply(2 * d.Dot(n))).Normalize()
}
