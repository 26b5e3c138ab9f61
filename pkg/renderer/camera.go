package renderer

import (
	"math"

	"github.com/df07/go-smallpaint/pkg/core"
)

// DefaultFieldOfView is the horizontal field of view of SimpleCamera in radians
const DefaultFieldOfView = math.Pi / 4

// Camera maps a pixel position to a view direction in camera space.
// The renderer normalizes the direction and casts it from the origin.
type Camera interface {
	Direction(x, y float64) core.Vec3
}

// SimpleCamera is a pinhole at the origin looking down -Z with +Y up
type SimpleCamera struct {
	width, height float64
	tanX, tanY    float64
}

// NewSimpleCamera creates a camera for an image of the given size
func NewSimpleCamera(width, height int) *SimpleCamera {
	w, h := float64(width), float64(height)
	fovY := h / w * DefaultFieldOfView
	return &SimpleCamera{
		width:  w,
		height: h,
		tanX:   math.Tan(DefaultFieldOfView),
		tanY:   math.Tan(fovY),
	}
}

// Direction returns the unnormalized direction through pixel (x, y)
func (c *SimpleCamera) Direction(x, y float64) core.Vec3 {
	return core.NewVec3(
		(2*x-c.width)/c.width*c.tanX,
		-(2*y-c.height)/c.height*c.tanY,
		-1,
	)
}
