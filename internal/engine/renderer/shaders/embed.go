// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for the lit figure meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for the lit figure meshes.
//
//go:embed mesh.frag
var MeshFragmentShader string

// HairVertexShader is the vertex shader for the glowing hair strips.
//
//go:embed hair.vert
var HairVertexShader string

// HairFragmentShader is the fragment shader for the glowing hair strips.
//
//go:embed hair.frag
var HairFragmentShader string
