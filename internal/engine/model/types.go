// Package model turns loaded OBJ models and hairs into vertex data ready
// for GPU upload.
package model

import "github.com/Faultbox/hallucination/pkg/obj"

// Vertex is a lit mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds one model's vertices and the flat color it is drawn in.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Color    [3]float32
	Bounds   obj.Bounds
}

// HairVertex is an unlit, per-vertex colored hair vertex.
type HairVertex struct {
	Position [3]float32
	Color    [3]float32
}

// Scene colors for the parts of the figure.
var (
	SkinColor   = [3]float32{1.0, 0.86, 0.69}
	JeansColor  = [3]float32{0.14, 0.25, 0.32}
	JacketColor = [3]float32{0.25, 0.25, 0.25}
	ShoesColor  = [3]float32{0.25, 0.25, 0.25}
)

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// SmoothNormals averages normals of vertices sharing a position.
	SmoothNormals bool
}
