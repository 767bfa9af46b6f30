// Package fur scatters hair strips over a triangulated surface and holds
// their per-hair animation state.
package fur

import (
	"github.com/Faultbox/hallucination/pkg/math"
)

// Hair geometry, in model units (meters).
const (
	HairWidth  = 0.0127 // 0.5 inch
	HairHeight = 0.0762 // 3 inches
)

// Corner indices into Hair.Vertices.
const (
	TopLeft = iota
	BottomLeft
	BottomRight
	TopRight
)

// straightDown is the world "down" direction hairs hang along.
var straightDown = math.Vec3{X: 0, Y: -1, Z: 0}

// Hair is a single rectangular strip attached to the surface.
type Hair struct {
	// Set once by Fur at creation.
	TopCenter math.Vec3
	Vertices  [4]math.Vec3

	// Ambient wave parameters, Frequency in [0,5) and Phase in [0,pi).
	Frequency float32
	Phase     float32

	// Illumination is the persistent beat-mode brightness in [0,1].
	Illumination float32

	// Color is the display value written by visualizers every frame.
	Color [3]float32
}

// SetGrey sets a grey scale color.
func (h *Hair) SetGrey(v float32) {
	h.Color = [3]float32{v, v, v}
}

// Grey returns the first color channel.
func (h *Hair) Grey() float32 {
	return h.Color[0]
}

// buildStrip computes the four corners of a strip hanging from topCenter on
// a face with the given unit normal.
func buildStrip(topCenter, normal math.Vec3, width, height float32) [4]math.Vec3 {
	// Crossing the normal with straight down gives the width direction.
	left := normal.Cross(straightDown).Normalize()
	if left == (math.Vec3{}) {
		// Horizontal faces have no defined "left"; use world X.
		left = math.Vec3{X: 1}
	}
	// Crossing left with the normal gives the length direction.
	down := left.Cross(normal).Normalize()

	topLeft := topCenter.Sub(left.Scale(width / 2))
	bottomLeft := topLeft.Add(down.Scale(height))
	bottomRight := bottomLeft.Add(left.Scale(width))
	topRight := bottomRight.Sub(down.Scale(height))

	return [4]math.Vec3{topLeft, bottomLeft, bottomRight, topRight}
}
