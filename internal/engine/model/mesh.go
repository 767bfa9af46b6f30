package model

import (
	"github.com/Faultbox/hallucination/pkg/math"
	"github.com/Faultbox/hallucination/pkg/obj"
)

// BuildMesh creates a mesh from a loaded model, one vertex per triangle
// corner. It returns nil for a model without triangles.
func BuildMesh(m *obj.Model, color [3]float32, opts BuildOptions) *Mesh {
	n := m.TriangleCount()
	if n == 0 {
		return nil
	}

	vertices := make([]Vertex, 0, n*3)
	for i := 0; i < len(m.FacesTriangles); i += 3 {
		vertices = append(vertices, Vertex{
			Position: [3]float32{m.FacesTriangles[i], m.FacesTriangles[i+1], m.FacesTriangles[i+2]},
			Normal:   [3]float32{m.Normals[i], m.Normals[i+1], m.Normals[i+2]},
		})
	}

	if opts.SmoothNormals {
		SmoothNormals(vertices)
	}

	return &Mesh{
		Name:     m.Name,
		Vertices: vertices,
		Color:    color,
		Bounds:   m.Bounds,
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.0001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]int32{int32(p[0] / epsilon), int32(p[1] / epsilon), int32(p[2] / epsilon)}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			nrm := vertices[idx].Normal
			sum = sum.Add(math.Vec3{X: nrm[0], Y: nrm[1], Z: nrm[2]})
		}
		avg := sum.Normalize().Array()

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}
