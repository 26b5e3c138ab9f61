package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-smallpaint/pkg/core"
)

func TestCylinder_Intersect(t *testing.T) {
	axis := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name           string
		height         float64
		caps           CapType
		ray            core.Ray
		expectHit      bool
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "wall from outside",
			height:         2,
			caps:           ThroughHole,
			ray:            core.NewRay(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0)),
			expectHit:      true,
			expectedT:      4,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:           "open tube inner wall faces the ray",
			height:         2,
			caps:           ThroughHole,
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			expectHit:      true,
			expectedT:      1,
			expectedNormal: core.NewVec3(-1, 0, 0),
		},
		{
			name:           "closed cylinder inner wall points outward",
			height:         2,
			caps:           DoubleCap,
			ray:            core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			expectHit:      true,
			expectedT:      1,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:      "open tube along the axis",
			height:    2,
			caps:      ThroughHole,
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			expectHit: false,
		},
		{
			name:           "double cap top",
			height:         2,
			caps:           DoubleCap,
			ray:            core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			expectHit:      true,
			expectedT:      4,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:           "single cap is the bottom",
			height:         2,
			caps:           SingleCap,
			ray:            core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			expectHit:      true,
			expectedT:      6,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:      "custom cap has no flat caps",
			height:    2,
			caps:      CustomCap,
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			expectHit: false,
		},
		{
			name:      "wall above the height",
			height:    2,
			caps:      DoubleCap,
			ray:       core.NewRay(core.NewVec3(5, 3, 0), core.NewVec3(-1, 0, 0)),
			expectHit: false,
		},
		{
			name:      "infinite height skips caps",
			height:    math.Inf(1),
			caps:      DoubleCap,
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			expectHit: false,
		},
		{
			name:           "infinite height wall",
			height:         math.Inf(1),
			caps:           DoubleCap,
			ray:            core.NewRay(core.NewVec3(5, 100, 0), core.NewVec3(-1, 0, 0)),
			expectHit:      true,
			expectedT:      4,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cylinder := NewCylinder(axis, tt.height, 1, tt.caps)
			hit, ok := cylinder.Intersect(tt.ray)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t=%f)", tt.expectHit, ok, hit.T)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if !vecNear(hit.Normal, tt.expectedNormal, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestCylinder_BoundingBox(t *testing.T) {
	tests := []struct {
		name    string
		axis    core.Ray
		height  float64
		radius  float64
		wantMin core.Vec3
		wantMax core.Vec3
	}{
		{
			name:    "axis-aligned Y",
			axis:    core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
			height:  2,
			radius:  1,
			wantMin: core.NewVec3(-1, -1, -1),
			wantMax: core.NewVec3(1, 1, 1),
		},
		{
			name:    "axis-aligned Z offset",
			axis:    core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, -3)),
			height:  3,
			radius:  0.5,
			wantMin: core.NewVec3(0.5, 0.5, -0.5),
			wantMax: core.NewVec3(1.5, 1.5, 2.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewCylinder(tt.axis, tt.height, tt.radius, DoubleCap).BoundingBox()
			if !vecNear(box.Min, tt.wantMin, tolerance) || !vecNear(box.Max, tt.wantMax, tolerance) {
				t.Errorf("Expected [%v, %v], got [%v, %v]", tt.wantMin, tt.wantMax, box.Min, box.Max)
			}
		})
	}

	t.Run("infinite height is unbounded along the axis only", func(t *testing.T) {
		box := NewCylinder(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), math.Inf(1), 1, ThroughHole).BoundingBox()
		if !math.IsInf(box.Min.Y, -1) || !math.IsInf(box.Max.Y, 1) {
			t.Errorf("Expected infinite Y extent, got %v", box)
		}
		if box.Min.X != -1 || box.Max.X != 1 {
			t.Errorf("Expected X extent [-1, 1], got [%f, %f]", box.Min.X, box.Max.X)
		}
	})

	t.Run("tilted cylinder contains its cap rims", func(t *testing.T) {
		cylinder := NewCylinder(core.NewRay(core.Vec3{}, core.NewVec3(1, 1, 0)), 2, 0.5, DoubleCap)
		box := cylinder.BoundingBox()
		u, v := cylinder.Axis.Direction.Orthonormal()
		for _, end := range []float64{-1, 1} {
			center := cylinder.Axis.At(end)
			for k := 0; k < 16; k++ {
				phi := 2 * math.Pi * float64(k) / 16
				p := center.Add(u.Multiply(0.5 * math.Cos(phi))).Add(v.Multiply(0.5 * math.Sin(phi)))
				if p.X < box.Min.X-tolerance || p.Y < box.Min.Y-tolerance || p.Z < box.Min.Z-tolerance ||
					p.X > box.Max.X+tolerance || p.Y > box.Max.Y+tolerance || p.Z > box.Max.Z+tolerance {
					t.Fatalf("Rim point %v outside box %v", p, box)
				}
			}
		}
	})
}
