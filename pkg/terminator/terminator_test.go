package terminator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-smallpaint/pkg/core"
)

func TestDepthTerminator(t *testing.T) {
	d := NewDepthTerminator(3)
	random := core.NewRandom(1)

	for depth := 0; depth < 6; depth++ {
		if got := d.Terminate(depth, random); got != (depth >= 3) {
			t.Errorf("Terminate(%d) = %t", depth, got)
		}
		if f := d.Factor(depth); f != 1 {
			t.Errorf("Factor(%d) = %f, expected 1", depth, f)
		}
	}
}

func TestRussianRouletteTerminator_BelowStartDepth(t *testing.T) {
	r := NewRussianRouletteTerminator(5, 0.9)
	random := core.NewRandom(2)

	for depth := 0; depth < 5; depth++ {
		for i := 0; i < 1000; i++ {
			if r.Terminate(depth, random) {
				t.Fatalf("Expected no termination below the start depth, depth=%d", depth)
			}
		}
		if f := r.Factor(depth); f != 1 {
			t.Errorf("Factor(%d) = %f, expected 1", depth, f)
		}
	}

	if f := r.Factor(5); math.Abs(f-10) > 1e-9 {
		t.Errorf("Factor(5) = %f, expected 10", f)
	}
}

func TestRussianRouletteTerminator_ZeroProbabilityNeverStops(t *testing.T) {
	r := NewRussianRouletteTerminator(0, 0)
	random := core.NewRandom(3)

	for i := 0; i < 10000; i++ {
		if r.Terminate(i, random) {
			t.Fatal("Expected a zero stop probability never to terminate")
		}
	}
	if r.Factor(100) != 1 {
		t.Errorf("Expected factor 1, got %f", r.Factor(100))
	}
}

func TestRussianRouletteTerminator_Unbiased(t *testing.T) {
	tests := []float64{0.1, 0.25, 0.5, 0.8}

	for _, p := range tests {
		r := NewRussianRouletteTerminator(2, p)
		random := core.NewRandom(uint64(p * 1000))

		const trials = 200000
		weights := make([]float64, trials)
		for i := range weights {
			// A surviving path carries the factor, a terminated one carries nothing
			if !r.Terminate(2, random) {
				weights[i] = r.Factor(2)
			}
		}

		mean, variance := stat.MeanVariance(weights, nil)
		stdErr := math.Sqrt(variance / trials)
		if math.Abs(mean-1) > 5*stdErr {
			t.Errorf("p=%.2f: expected expectation 1, got %f (std err %f)", p, mean, stdErr)
		}
	}
}
