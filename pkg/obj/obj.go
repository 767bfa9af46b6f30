// Package obj reads Wavefront OBJ models into flat triangle buffers.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/hallucination/pkg/math"
)

// FloatsPerTriangle is the number of floats one triangle occupies in
// FacesTriangles and Normals (3 vertices x 3 coordinates).
const FloatsPerTriangle = 9

// OBJ format errors.
var (
	ErrNoTriangles       = errors.New("model has no triangles")
	ErrMismatchedBuffers = errors.New("face and normal buffers differ")
	ErrInvalidVertex     = errors.New("invalid vertex")
	ErrInvalidFace       = errors.New("invalid face")
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Model is a triangulated OBJ model.
type Model struct {
	Name string

	// Vertices holds the distinct "v" positions, 3 floats each.
	Vertices []float32

	// FacesTriangles holds every triangle as 9 floats. Normals is
	// indexed identically and carries the face normal for each vertex.
	FacesTriangles []float32
	Normals        []float32

	Bounds Bounds
}

// TriangleCount returns the number of triangles in the model.
func (m *Model) TriangleCount() int {
	return len(m.FacesTriangles) / FloatsPerTriangle
}

// Triangle returns the three corners of triangle i.
func (m *Model) Triangle(i int) (a, b, c math.Vec3) {
	base := i * FloatsPerTriangle
	return math.V3(m.FacesTriangles, base), math.V3(m.FacesTriangles, base+3), math.V3(m.FacesTriangles, base+6)
}

// Validate checks the buffer invariants consumers rely on.
func (m *Model) Validate() error {
	if len(m.FacesTriangles) != len(m.Normals) {
		return fmt.Errorf("%w: %d faces floats, %d normal floats", ErrMismatchedBuffers, len(m.FacesTriangles), len(m.Normals))
	}
	if len(m.FacesTriangles)%FloatsPerTriangle != 0 {
		return fmt.Errorf("%w: %d floats is not a multiple of %d", ErrMismatchedBuffers, len(m.FacesTriangles), FloatsPerTriangle)
	}
	if len(m.FacesTriangles) == 0 {
		return ErrNoTriangles
	}
	return nil
}

// Load reads an OBJ model from disk.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// Parse reads an OBJ model. Only "v" and "f" records are used; polygons
// with more than three corners are fan-triangulated and every triangle
// gets its face normal.
func Parse(r io.Reader) (*Model, error) {
	m := &Model{
		Bounds: Bounds{
			Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
			Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
		},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			m.Vertices = append(m.Vertices, v.X, v.Y, v.Z)
		case "f":
			idx, err := parseFace(fields[1:], len(m.Vertices)/3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			for i := 1; i+1 < len(idx); i++ {
				m.addTriangle(idx[0], idx[i], idx[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if m.TriangleCount() == 0 {
		return nil, ErrNoTriangles
	}
	return m, nil
}

func (m *Model) addTriangle(ia, ib, ic int) {
	a := math.V3(m.Vertices, ia*3)
	b := math.V3(m.Vertices, ib*3)
	c := math.V3(m.Vertices, ic*3)
	n := FaceNormal(a, b, c)

	for _, p := range [3]math.Vec3{a, b, c} {
		m.FacesTriangles = append(m.FacesTriangles, p.X, p.Y, p.Z)
		m.Normals = append(m.Normals, n.X, n.Y, n.Z)
		m.Bounds.Min = m.Bounds.Min.Min(p)
		m.Bounds.Max = m.Bounds.Max.Max(p)
	}
}

// FaceNormal returns the unit normal of triangle abc with counter-clockwise
// winding. Degenerate triangles yield the zero vector.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func parseVertex(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: need 3 coordinates, got %d", ErrInvalidVertex, len(fields))
	}
	var xyz [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: %v", ErrInvalidVertex, err)
		}
		xyz[i] = float32(f)
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseFace converts the corner references of an "f" record into
// zero-based vertex indices. Corners may be "v", "v/vt", "v/vt/vn" or
// "v//vn"; negative references count back from the last vertex.
func parseFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: need 3 corners, got %d", ErrInvalidFace, len(fields))
	}
	idx := make([]int, 0, len(fields))
	for _, corner := range fields {
		ref, _, _ := strings.Cut(corner, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFace, corner)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += vertexCount
		default:
			return nil, fmt.Errorf("%w: zero index", ErrInvalidFace)
		}
		if n < 0 || n >= vertexCount {
			return nil, fmt.Errorf("%w: index %s out of range (%d vertices)", ErrInvalidFace, ref, vertexCount)
		}
		idx = append(idx, n)
	}
	return idx, nil
}
