package sampler

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/df07/go-smallpaint/pkg/core"
)

// HaltonSampler walks the two dimensional Halton sequence in bases 2 and 3.
// The sequence index is shared by every caller.
type HaltonSampler struct {
	index atomic.Uint64
}

// NewHaltonSampler creates a sampler starting at the given sequence index.
// Index 0 maps to a grazing direction on the horizon, so callers usually
// start at 1.
func NewHaltonSampler(start uint64) *HaltonSampler {
	s := &HaltonSampler{}
	s.index.Store(start)
	return s
}

// Hemisphere returns the direction for the next sequence index. The random
// source is unused.
func (s *HaltonSampler) Hemisphere(_ *rand.Rand) core.Vec3 {
	i := s.index.Add(1) - 1
	return HemisphereDirection(RadicalInverse(2, i), RadicalInverse(3, i))
}

// RadicalInverse mirrors the base-b digits of i around the radix point
func RadicalInverse(base, i uint64) float64 {
	inverse := 1.0 / float64(base)
	factor := inverse
	result := 0.0
	for i > 0 {
		result += float64(i%base) * factor
		i /= base
		factor *= inverse
	}
	return result
}
