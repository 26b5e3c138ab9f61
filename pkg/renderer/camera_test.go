package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-smallpaint/pkg/core"
)

func TestSimpleCamera_Direction(t *testing.T) {
	camera := NewSimpleCamera(200, 100)
	tanX := math.Tan(math.Pi / 4)
	tanY := math.Tan(math.Pi / 8)

	tests := []struct {
		name     string
		x, y     float64
		expected core.Vec3
	}{
		{"center", 100, 50, core.NewVec3(0, 0, -1)},
		{"top left", 0, 0, core.NewVec3(-tanX, tanY, -1)},
		{"bottom right", 200, 100, core.NewVec3(tanX, -tanY, -1)},
		{"right edge middle", 200, 50, core.NewVec3(tanX, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := camera.Direction(tt.x, tt.y)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSimpleCamera_LooksDownNegativeZ(t *testing.T) {
	camera := NewSimpleCamera(64, 48)
	for y := 0; y < 48; y += 7 {
		for x := 0; x < 64; x += 7 {
			if d := camera.Direction(float64(x), float64(y)); d.Z != -1 {
				t.Fatalf("Expected z=-1 at (%d,%d), got %v", x, y, d)
			}
		}
	}
}
