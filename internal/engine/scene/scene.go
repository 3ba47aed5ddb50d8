// Package scene composes the water surface, the camera and the sky
// background into the graph the render loop draws every frame. The graph is
// built once per session; GPU work goes through a Backend so the graph can be
// exercised without a display.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/scene/shaders"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/params"
	"github.com/Faultbox/seascape/pkg/math"
)

// Sources holds the surface program's GLSL. The scene never inspects it.
type Sources struct {
	Vertex   string
	Fragment string
}

// DefaultSources returns the embedded surface shaders.
func DefaultSources() Sources {
	return Sources{
		Vertex:   shaders.SurfaceVertexShader,
		Fragment: shaders.SurfaceFragmentShader,
	}
}

// DrawCall is everything a backend needs to draw one frame.
type DrawCall struct {
	Program    uint32
	Mesh       uint32
	IndexCount int32
	Background uint32 // 0 when no sky texture is bound

	Model      math.Mat4
	View       math.Mat4
	Projection math.Mat4

	Uniforms params.Values
}

// Backend is the drawable surface the graph renders into.
type Backend interface {
	// CompileProgram compiles and links the surface program. Failures are
	// *gpu.CompileError.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	// UploadMesh attaches the grid to the surface and returns its handle.
	UploadMesh(grid *surface.Grid) (uint32, error)
	// Draw issues one draw. Errors are classified with gpu.IsFatal.
	Draw(call DrawCall) error
	// Release frees the program and mesh.
	Release(program, mesh uint32)
}

// Graph is the composed scene.
type Graph struct {
	backend Backend
	log     *zap.Logger

	program    uint32
	mesh       uint32
	grid       *surface.Grid
	background uint32

	Camera *camera.Camera
	Model  math.Mat4
}

// Options configure New.
type Options struct {
	Sources    Sources
	Grid       *surface.Grid
	Camera     *camera.Camera
	Background uint32
	Logger     *zap.Logger
}

// New compiles the surface program and only then attaches the mesh to the
// backend. A compile failure returns before anything reaches the surface.
func New(backend Backend, opts Options) (*Graph, error) {
	if backend == nil {
		return nil, errors.New("scene: nil backend")
	}
	if opts.Grid == nil || opts.Camera == nil {
		return nil, errors.New("scene: grid and camera are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	program, err := backend.CompileProgram(opts.Sources.Vertex, opts.Sources.Fragment)
	if err != nil {
		return nil, fmt.Errorf("surface program: %w", err)
	}

	mesh, err := backend.UploadMesh(opts.Grid)
	if err != nil {
		backend.Release(program, 0)
		return nil, fmt.Errorf("surface mesh: %w", err)
	}

	log.Info("scene composed",
		zap.Int("vertices", opts.Grid.VertexCount()),
		zap.Int("triangles", opts.Grid.TriangleCount()),
		zap.Bool("background", opts.Background != 0),
	)

	return &Graph{
		backend:    backend,
		log:        log,
		program:    program,
		mesh:       mesh,
		grid:       opts.Grid,
		background: opts.Background,
		Camera:     opts.Camera,
		Model:      math.Identity(),
	}, nil
}

// Draw renders the graph once with the given parameter snapshot.
func (g *Graph) Draw(v params.Values) error {
	if g.program == 0 {
		return errors.New("scene: draw after close")
	}
	return g.backend.Draw(DrawCall{
		Program:    g.program,
		Mesh:       g.mesh,
		IndexCount: int32(len(g.grid.Indices)),
		Background: g.background,
		Model:      g.Model,
		View:       g.Camera.View(),
		Projection: g.Camera.Projection(),
		Uniforms:   v,
	})
}

// Grid returns the surface mesh.
func (g *Graph) Grid() *surface.Grid {
	return g.grid
}

// Close releases GPU resources. Safe to call more than once.
func (g *Graph) Close() {
	if g.program == 0 && g.mesh == 0 {
		return
	}
	g.backend.Release(g.program, g.mesh)
	g.program = 0
	g.mesh = 0
}
