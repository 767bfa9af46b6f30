package visualizer

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTint leaves hairs grey.
const DefaultTint = "#ffffff"

// Palette maps display values to hair colors by fading from black to a
// tint. Display values at or below zero are black.
type Palette struct {
	tint colorful.Color
}

// NewPalette parses a "#rrggbb" tint.
func NewPalette(hex string) (Palette, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Palette{}, fmt.Errorf("hair tint %q: %w", hex, err)
	}
	return Palette{tint: c}, nil
}

// Tint returns the tint as a hex string.
func (p Palette) Tint() string {
	return p.tint.Hex()
}

// Shade returns the RGB color for a display value.
func (p Palette) Shade(display float32) [3]float32 {
	v := float64(min(max(display, 0), 1))
	c := colorful.Color{}.BlendRgb(p.tint, v).Clamped()
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
