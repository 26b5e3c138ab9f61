package sampler

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-smallpaint/pkg/core"
)

func TestHemisphereDirection(t *testing.T) {
	tests := []struct {
		name     string
		u1, u2   float64
		expected core.Vec3
	}{
		{"pole", 1, 0, core.NewVec3(0, 0, 1)},
		{"horizon along x", 0, 0, core.NewVec3(1, 0, 0)},
		{"horizon along y", 0, 0.25, core.NewVec3(0, 1, 0)},
		{"halfway", 0.5, 0.5, core.NewVec3(-math.Sqrt(0.75), 0, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HemisphereDirection(tt.u1, tt.u2)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRadicalInverse(t *testing.T) {
	tests := []struct {
		base, index uint64
		expected    float64
	}{
		{2, 0, 0},
		{2, 1, 0.5},
		{2, 2, 0.25},
		{2, 3, 0.75},
		{2, 5, 0.625},
		{3, 1, 1.0 / 3},
		{3, 2, 2.0 / 3},
		{3, 3, 1.0 / 9},
		{3, 4, 4.0 / 9},
	}

	for _, tt := range tests {
		if got := RadicalInverse(tt.base, tt.index); math.Abs(got-tt.expected) > 1e-15 {
			t.Errorf("RadicalInverse(%d, %d) = %f, expected %f", tt.base, tt.index, got, tt.expected)
		}
	}
}

func TestSamplers_CoverHemisphereUniformly(t *testing.T) {
	samplers := map[string]Sampler{
		"random": NewRandomSampler(),
		"halton": NewHaltonSampler(1),
	}

	for name, s := range samplers {
		t.Run(name, func(t *testing.T) {
			random := core.NewRandom(5)
			const n = 50000
			zs := make([]float64, n)
			xs := make([]float64, n)
			for i := 0; i < n; i++ {
				d := s.Hemisphere(random)
				if math.Abs(d.Length()-1) > 1e-9 {
					t.Fatalf("Expected unit direction, got length %f", d.Length())
				}
				if d.Z < 0 {
					t.Fatalf("Expected upper hemisphere, got %v", d)
				}
				zs[i] = d.Z
				xs[i] = d.X
			}

			// The pole cosine is uniform on [0,1) and the azimuth is symmetric
			if mean := stat.Mean(zs, nil); math.Abs(mean-0.5) > 0.01 {
				t.Errorf("Expected mean z near 0.5, got %f", mean)
			}
			if sd := stat.StdDev(zs, nil); math.Abs(sd-1/math.Sqrt(12)) > 0.01 {
				t.Errorf("Expected z standard deviation near %f, got %f", 1/math.Sqrt(12), sd)
			}
			if mean := stat.Mean(xs, nil); math.Abs(mean) > 0.01 {
				t.Errorf("Expected mean x near 0, got %f", mean)
			}
		})
	}
}

func TestHaltonSampler_ConcurrentCallersShareTheSequence(t *testing.T) {
	s := NewHaltonSampler(1)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Hemisphere(nil)
			}
		}()
	}
	wg.Wait()

	if got := s.index.Load(); got != 8001 {
		t.Errorf("Expected sequence index 8001, got %d", got)
	}
}
