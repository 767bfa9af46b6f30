package model

import (
	"github.com/Faultbox/hallucination/internal/fur"
)

// VerticesPerHair is the number of vertices one hair strip expands to
// (two triangles).
const VerticesPerHair = 6

// quadOrder splits a strip into two triangles.
var quadOrder = [VerticesPerHair]int{
	fur.TopLeft, fur.BottomLeft, fur.BottomRight,
	fur.TopLeft, fur.BottomRight, fur.TopRight,
}

// Shader maps a hair's display value to an RGB color.
type Shader interface {
	Shade(display float32) [3]float32
}

// AppendHairs appends the triangles of every hair to dst, colored by
// shade, and returns the extended slice. Reusing dst across frames avoids
// reallocating.
func AppendHairs(dst []HairVertex, hairs []fur.Hair, shade Shader) []HairVertex {
	for i := range hairs {
		h := &hairs[i]
		color := shade.Shade(h.Grey())
		for _, corner := range quadOrder {
			dst = append(dst, HairVertex{
				Position: h.Vertices[corner].Array(),
				Color:    color,
			})
		}
	}
	return dst
}
