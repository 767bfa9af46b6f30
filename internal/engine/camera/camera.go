// Package camera provides the free-look camera the viewer flies around
// the model with.
package camera

import (
	gomath "math"

	"github.com/Faultbox/hallucination/pkg/math"
)

// halfTurn is the quarter-circle offset used for the right vector.
const halfTurn = 3.14 / 2

// FlyCamera looks along a direction given by two angles and moves along
// that direction.
type FlyCamera struct {
	Position math.Vec3

	// Spherical orientation (radians)
	Horizontal float32
	Vertical   float32

	// Projection
	FOV  float32 // degrees
	Near float32
	Far  float32

	// Sensitivity
	MoveSpeed float32
	LookSpeed float32

	direction math.Vec3
	right     math.Vec3
	up        math.Vec3
}

// NewFlyCamera creates a camera a little in front of a standing figure,
// looking back at it.
func NewFlyCamera() *FlyCamera {
	c := &FlyCamera{
		Position:   math.Vec3{X: 0, Y: 1.2, Z: 1.5},
		Horizontal: 3.14,
		Vertical:   0,
		FOV:        60,
		Near:       0.1,
		Far:        500,
		MoveSpeed:  0.1,
		LookSpeed:  0.00001,
	}
	c.updateVectors()
	return c
}

// updateVectors recomputes direction, right and up from the angles.
func (c *FlyCamera) updateVectors() {
	h := float64(c.Horizontal)
	v := float64(c.Vertical)

	c.direction = math.Vec3{
		X: float32(gomath.Cos(v) * gomath.Sin(h)),
		Y: float32(gomath.Sin(v)),
		Z: float32(gomath.Cos(v) * gomath.Cos(h)),
	}
	c.right = math.Vec3{
		X: float32(gomath.Sin(h - halfTurn)),
		Y: 0,
		Z: float32(gomath.Cos(h - halfTurn)),
	}
	c.up = c.right.Cross(c.direction)
}

// Direction returns the unit view direction.
func (c *FlyCamera) Direction() math.Vec3 { return c.direction }

// Right returns the horizontal right vector.
func (c *FlyCamera) Right() math.Vec3 { return c.right }

// Up returns the camera up vector.
func (c *FlyCamera) Up() math.Vec3 { return c.up }

// HandleCursor turns the camera by how far the cursor is from the window
// center, the way a recentering mouse look works.
func (c *FlyCamera) HandleCursor(x, y float64, width, height int) {
	c.Horizontal += c.LookSpeed * float32(float64(width)/2-x)
	c.Vertical += c.LookSpeed * float32(float64(height)/2-y)
	c.updateVectors()
}

// Move steps along the view direction; negative steps move backwards.
func (c *FlyCamera) Move(steps float32) {
	c.Position = c.Position.Add(c.direction.Scale(steps * c.MoveSpeed))
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Position.Add(c.direction), c.up)
}

// ProjectionMatrix returns the perspective projection for a viewport.
func (c *FlyCamera) ProjectionMatrix(width, height int) math.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}
