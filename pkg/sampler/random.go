package sampler

import (
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
)

// RandomSampler draws both coordinates from the caller's random source
type RandomSampler struct{}

// NewRandomSampler creates a pseudo-random sampler
func NewRandomSampler() *RandomSampler {
	return &RandomSampler{}
}

// Hemisphere returns a uniformly distributed hemisphere direction
func (s *RandomSampler) Hemisphere(random *rand.Rand) core.Vec3 {
	return HemisphereDirection(random.Float64(), random.Float64())
}
