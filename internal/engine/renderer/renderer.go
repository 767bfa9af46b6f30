// Package renderer draws the figure meshes and the hair strips with
// OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/engine/model"
	"github.com/Faultbox/hallucination/internal/engine/renderer/shaders"
	"github.com/Faultbox/hallucination/internal/engine/shader"
	"github.com/Faultbox/hallucination/internal/fur"
	"github.com/Faultbox/hallucination/internal/logger"
	"github.com/Faultbox/hallucination/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Lighting describes the single light over the figure.
type Lighting struct {
	Ambient [3]float32
	Diffuse [3]float32
}

// DefaultLighting is a dim ambient term plus a moderate diffuse light.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient: [3]float32{0.1, 0.1, 0.1},
		Diffuse: [3]float32{0.6, 0.6, 0.6},
	}
}

// Frame holds the per-frame transforms and switches.
type Frame struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	LightsOn   bool
}

type gpuMesh struct {
	name        string
	vao, vbo    uint32
	vertexCount int32
	color       [3]float32
}

type meshProgram struct {
	id                     uint32
	locProjection, locView int32
	locModel, locColor     int32
	locAmbient, locDiffuse int32
	locLightOn             int32
}

type hairProgram struct {
	id                     uint32
	locProjection, locView int32
	locModel, locBase      int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config   Config
	lighting Lighting

	meshProg meshProgram
	hairProg hairProgram

	meshes []gpuMesh

	hairVAO, hairVBO uint32
	hairCapacity     int // vertices the VBO can hold
	hairCount        int32
	hairBase         [3]float32
	hairVertices     []model.HairVertex
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, lighting Lighting) (*Renderer, error) {
	r := &Renderer{config: cfg, lighting: lighting}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.0, 0.1, 0.0, 0.5)
	gl.ClearDepth(1.0)

	if err := r.createPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.hairVAO)
	gl.GenBuffers(1, &r.hairVBO)
	gl.BindVertexArray(r.hairVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.hairVBO)
	stride := int32(unsafe.Sizeof(model.HairVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

func (r *Renderer) createPrograms() error {
	id, err := shader.CompileProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}
	r.meshProg = meshProgram{
		id:            id,
		locProjection: shader.GetUniform(id, "uProjection"),
		locView:       shader.GetUniform(id, "uView"),
		locModel:      shader.GetUniform(id, "uModel"),
		locColor:      shader.GetUniform(id, "uColor"),
		locAmbient:    shader.GetUniform(id, "uAmbient"),
		locDiffuse:    shader.GetUniform(id, "uDiffuse"),
		locLightOn:    shader.GetUniform(id, "uLightOn"),
	}

	id, err = shader.CompileProgram(shaders.HairVertexShader, shaders.HairFragmentShader)
	if err != nil {
		return fmt.Errorf("hair shader: %w", err)
	}
	r.hairProg = hairProgram{
		id:            id,
		locProjection: shader.GetUniform(id, "uProjection"),
		locView:       shader.GetUniform(id, "uView"),
		locModel:      shader.GetUniform(id, "uModel"),
		locBase:       shader.GetUniform(id, "uBase"),
	}

	logger.Debug("shader programs created",
		zap.Uint32("mesh", r.meshProg.id),
		zap.Uint32("hair", r.hairProg.id),
	)
	return nil
}

// AddMesh uploads a mesh; it is drawn every frame from then on.
func (r *Renderer) AddMesh(m *model.Mesh) {
	if m == nil || len(m.Vertices) == 0 {
		return
	}
	g := gpuMesh{name: m.Name, vertexCount: int32(len(m.Vertices)), color: m.Color}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)

	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	r.meshes = append(r.meshes, g)
	logger.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
	)
}

// SetHairBase sets the cloth color hairs glow on top of.
func (r *Renderer) SetHairBase(color [3]float32) {
	r.hairBase = color
}

// UpdateHairs re-uploads hair geometry with this frame's colors.
func (r *Renderer) UpdateHairs(hairs []fur.Hair, shade model.Shader) {
	r.hairVertices = model.AppendHairs(r.hairVertices[:0], hairs, shade)
	r.hairCount = int32(len(r.hairVertices))
	if r.hairCount == 0 {
		return
	}

	size := len(r.hairVertices) * int(unsafe.Sizeof(model.HairVertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.hairVBO)
	if len(r.hairVertices) > r.hairCapacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&r.hairVertices[0]), gl.DYNAMIC_DRAW)
		r.hairCapacity = len(r.hairVertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&r.hairVertices[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the meshes, then the hairs on top of them.
func (r *Renderer) Draw(f Frame) {
	gl.UseProgram(r.meshProg.id)
	gl.UniformMatrix4fv(r.meshProg.locProjection, 1, false, f.Projection.Ptr())
	gl.UniformMatrix4fv(r.meshProg.locView, 1, false, f.View.Ptr())
	gl.UniformMatrix4fv(r.meshProg.locModel, 1, false, f.Model.Ptr())
	a, d := r.lighting.Ambient, r.lighting.Diffuse
	gl.Uniform3f(r.meshProg.locAmbient, a[0], a[1], a[2])
	gl.Uniform3f(r.meshProg.locDiffuse, d[0], d[1], d[2])
	var lightOn int32
	if f.LightsOn {
		lightOn = 1
	}
	gl.Uniform1i(r.meshProg.locLightOn, lightOn)

	for _, m := range r.meshes {
		gl.Uniform3f(r.meshProg.locColor, m.color[0], m.color[1], m.color[2])
		gl.BindVertexArray(m.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, m.vertexCount)
	}

	if r.hairCount > 0 {
		gl.UseProgram(r.hairProg.id)
		gl.UniformMatrix4fv(r.hairProg.locProjection, 1, false, f.Projection.Ptr())
		gl.UniformMatrix4fv(r.hairProg.locView, 1, false, f.View.Ptr())
		gl.UniformMatrix4fv(r.hairProg.locModel, 1, false, f.Model.Ptr())
		b := r.hairBase
		gl.Uniform3f(r.hairProg.locBase, b[0]*a[0], b[1]*a[1], b[2]*a[2])
		gl.BindVertexArray(r.hairVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, r.hairCount)
	}

	gl.BindVertexArray(0)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
	}
	r.meshes = nil
	if r.hairVAO != 0 {
		gl.DeleteVertexArrays(1, &r.hairVAO)
	}
	if r.hairVBO != 0 {
		gl.DeleteBuffers(1, &r.hairVBO)
	}
	if r.meshProg.id != 0 {
		gl.DeleteProgram(r.meshProg.id)
	}
	if r.hairProg.id != 0 {
		gl.DeleteProgram(r.hairProg.id)
	}
}
