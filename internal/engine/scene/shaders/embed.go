// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SurfaceVertexShader displaces the grid with the wave formula.
//
//go:embed surface.vert
var SurfaceVertexShader string

// SurfaceFragmentShader blends depth and surface colors by elevation.
//
//go:embed surface.frag
var SurfaceFragmentShader string

// BackgroundVertexShader emits a full-screen triangle.
//
//go:embed background.vert
var BackgroundVertexShader string

// BackgroundFragmentShader samples the sky texture.
//
//go:embed background.frag
var BackgroundFragmentShader string
