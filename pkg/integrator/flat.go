package integrator

import (
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
	"github.com/df07/go-smallpaint/pkg/scene"
)

// flatGain brightens the preview to roughly match the path traced scenes
const flatGain = 8.0

// FlatTracer shades the first hit by its color and the incidence cosine.
// It never bounces, so no terminator or sampler is involved.
type FlatTracer struct{}

// NewFlatTracer creates a preview tracer
func NewFlatTracer() *FlatTracer {
	return &FlatTracer{}
}

// Trace returns color × gain × cos for the nearest hit
func (ft *FlatTracer) Trace(ray core.Ray, s *scene.Scene, _ core.RenderParams, _ int, _ *rand.Rand) core.Vec3 {
	hit, isHit := s.FindIntersection(ray)
	if !isHit {
		return core.Vec3{}
	}
	return hit.Object.Color.Multiply(-flatGain * hit.Normal.Dot(ray.Direction.Normalize()))
}
