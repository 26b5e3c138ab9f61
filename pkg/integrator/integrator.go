package integrator

import (
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/scene"
)

// Tracer defines the interface for light transport algorithms.
// Trace must not mutate the scene; it is called from many goroutines, each
// with its own random source.
type Tracer interface {
	// Trace estimates the radiance arriving along the ray at the given bounce depth
	Trace(ray core.Ray, s *scene.Scene, params core.RenderParams, depth int, random *rand.Rand) core.Vec3
}
