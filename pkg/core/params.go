package core

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mathext/prng"
)

// RenderParams holds the parameters that stay fixed for the lifetime of a render
type RenderParams struct {
	RefractionIndex float64 // Global index of refraction for dielectric objects
	SamplesPerPixel uint64  // Target number of passes
}

// DefaultRenderParams returns the values used by the bundled sample scenes
func DefaultRenderParams() RenderParams {
	return RenderParams{
		RefractionIndex: 1.5,
		SamplesPerPixel: 25,
	}
}

// NewRandom creates a deterministic random generator backed by a xoshiro256** source
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(prng.NewXoshiro256starstar(seed))
}
