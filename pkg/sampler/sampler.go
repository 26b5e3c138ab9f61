// Package sampler provides strategies for drawing bounce directions.
package sampler

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-smallpaint/pkg/core"
)

// Sampler draws directions on the unit hemisphere around +Z.
// Implementations must be safe for concurrent use; per-goroutine state is
// passed in through random.
type Sampler interface {
	Hemisphere(random *rand.Rand) core.Vec3
}

// HemisphereDirection maps two numbers in [0,1) to the unit hemisphere
// around +Z, with u1 as the cosine to the pole and u2 as the azimuth fraction.
func HemisphereDirection(u1, u2 float64) core.Vec3 {
	r := math.Sqrt(1 - u1*u1)
	phi := 2 * math.Pi * u2
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), u1)
}
