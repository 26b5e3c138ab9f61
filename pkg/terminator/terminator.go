// Package terminator decides when a light path stops bouncing.
package terminator

import "math/rand/v2"

// Terminator controls path length. Factor is the weight applied to the
// radiance gathered at a depth the path survived.
type Terminator interface {
	Terminate(depth int, random *rand.Rand) bool
	Factor(depth int) float64
}

// DepthTerminator stops every path at a fixed depth
type DepthTerminator struct {
	MaxDepth int
}

// NewDepthTerminator creates a terminator that stops at maxDepth
func NewDepthTerminator(maxDepth int) *DepthTerminator {
	return &DepthTerminator{MaxDepth: maxDepth}
}

// Terminate reports whether depth reached the maximum
func (d *DepthTerminator) Terminate(depth int, _ *rand.Rand) bool {
	return depth >= d.MaxDepth
}

// Factor is always 1
func (d *DepthTerminator) Factor(int) float64 {
	return 1
}

// RussianRouletteTerminator stops paths at random once they reach
// StartDepth and boosts the survivors to keep the estimate unbiased.
type RussianRouletteTerminator struct {
	StartDepth      int
	StopProbability float64 // In [0, 1)
}

// NewRussianRouletteTerminator creates a roulette terminator
func NewRussianRouletteTerminator(startDepth int, stopProbability float64) *RussianRouletteTerminator {
	return &RussianRouletteTerminator{StartDepth: startDepth, StopProbability: stopProbability}
}

// Terminate draws against the stop probability once past the start depth
func (r *RussianRouletteTerminator) Terminate(depth int, random *rand.Rand) bool {
	return depth >= r.StartDepth && random.Float64() < r.StopProbability
}

// Factor returns 1/(1-p) past the start depth and 1 before it
func (r *RussianRouletteTerminator) Factor(depth int) float64 {
	if depth < r.StartDepth {
		return 1
	}
	return 1 / (1 - r.StopProbability)
}
