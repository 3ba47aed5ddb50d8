// Package renderer is the OpenGL 4.1 backend for the scene graph. It owns
// the surface meshes, the sky background pass and the uniform upload for the
// wave program.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/engine/framebuffer"
	"github.com/Faultbox/seascape/internal/engine/gpu"
	"github.com/Faultbox/seascape/internal/engine/scene"
	"github.com/Faultbox/seascape/internal/engine/scene/shaders"
	"github.com/Faultbox/seascape/internal/engine/shader"
	"github.com/Faultbox/seascape/internal/engine/surface"
)

// DefaultClearColor is used when no sky texture is bound.
var DefaultClearColor = [4]float32{0.53, 0.73, 0.87, 1}

// Options configure New.
type Options struct {
	Width, Height int // initial drawable size in physical pixels
	ClearColor    [4]float32
	Logger        *zap.Logger
}

type meshBuffers struct {
	vao, positions, uvs, indices uint32
}

// Renderer implements scene.Backend and viewport.Raster.
// IMPORTANT: must be created AFTER the GL context is current, and used only
// from the goroutine that owns it.
type Renderer struct {
	log *zap.Logger

	width, height int32
	density       float32
	clear         [4]float32

	target *framebuffer.Framebuffer

	background struct {
		program uint32
		vao     uint32
		sampler int32
	}

	meshes   map[uint32]meshBuffers
	uniforms map[uint32]*shader.Uniforms
	textures []uint32
}

// New initializes GL function pointers and builds the background pass.
func New(opts Options) (*Renderer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		log:      log,
		width:    int32(max(opts.Width, 1)),
		height:   int32(max(opts.Height, 1)),
		density:  1,
		clear:    opts.ClearColor,
		meshes:   make(map[uint32]meshBuffers),
		uniforms: make(map[uint32]*shader.Uniforms),
	}
	if r.clear == ([4]float32{}) {
		r.clear = DefaultClearColor
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	program, err := shader.CompileProgram(shaders.BackgroundVertexShader, shaders.BackgroundFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("background program: %w", err)
	}
	r.background.program = program
	r.background.sampler = gl.GetUniformLocation(program, gl.Str("uBackground\x00"))
	// Core profile refuses draws without a bound VAO, even attribute-less ones.
	gl.GenVertexArrays(1, &r.background.vao)

	return r, nil
}

// SetTarget redirects draws into fb. Pass nil to draw to the window.
func (r *Renderer) SetTarget(fb *framebuffer.Framebuffer) {
	r.target = fb
}

// SetSize sets the window viewport in physical pixels.
func (r *Renderer) SetSize(width, height int) {
	r.width = int32(max(width, 1))
	r.height = int32(max(height, 1))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// SetPixelDensity records the device pixel ratio.
func (r *Renderer) SetPixelDensity(density float32) {
	if density > 0 {
		r.density = density
	}
}

// Size returns the current drawable size in physical pixels.
func (r *Renderer) Size() (int, int) {
	if r.target != nil {
		w, h := r.target.Size()
		return int(w), int(h)
	}
	return int(r.width), int(r.height)
}

// CompileProgram compiles the surface program.
func (r *Renderer) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	r.uniforms[program] = shader.NewUniforms(program)
	return program, nil
}

// UploadMesh copies the grid into a VAO with position (location 0) and uv
// (location 1) attributes.
func (r *Renderer) UploadMesh(grid *surface.Grid) (uint32, error) {
	if grid == nil || len(grid.Indices) == 0 {
		return 0, fmt.Errorf("upload mesh: empty grid")
	}

	var m meshBuffers
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.positions)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.BufferData(gl.ARRAY_BUFFER, len(grid.Positions)*4, gl.Ptr(grid.Positions), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &m.uvs)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.uvs)
	gl.BufferData(gl.ARRAY_BUFFER, len(grid.UVs)*4, gl.Ptr(grid.UVs), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &m.indices)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.indices)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(grid.Indices)*4, gl.Ptr(grid.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if err := r.checkErrors("upload mesh"); err != nil {
		r.deleteMesh(m)
		return 0, err
	}
	r.meshes[m.vao] = m
	return m.vao, nil
}

// UploadBackground uploads the sky image and returns its texture handle.
func (r *Renderer) UploadBackground(img *image.RGBA) (uint32, error) {
	b := img.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := r.checkErrors("upload background"); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	r.textures = append(r.textures, tex)
	return tex, nil
}

// Draw renders one frame: background pass, then the displaced surface.
func (r *Renderer) Draw(call scene.DrawCall) error {
	if r.target != nil {
		r.target.Bind()
		defer r.target.Unbind()
	} else {
		gl.Viewport(0, 0, r.width, r.height)
	}

	gl.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if call.Background != 0 {
		r.drawBackground(call.Background)
	}

	gl.UseProgram(call.Program)
	r.setUniforms(call)

	gl.BindVertexArray(call.Mesh)
	gl.DrawElementsWithOffset(gl.TRIANGLES, call.IndexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)

	return r.checkErrors("draw surface")
}

func (r *Renderer) drawBackground(tex uint32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)

	gl.UseProgram(r.background.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(r.background.sampler, 0)
	gl.BindVertexArray(r.background.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) setUniforms(call scene.DrawCall) {
	u, ok := r.uniforms[call.Program]
	if !ok {
		u = shader.NewUniforms(call.Program)
		r.uniforms[call.Program] = u
	}
	v := call.Uniforms

	gl.UniformMatrix4fv(u.Location("uModel"), 1, false, call.Model.Ptr())
	gl.UniformMatrix4fv(u.Location("uView"), 1, false, call.View.Ptr())
	gl.UniformMatrix4fv(u.Location("uProjection"), 1, false, call.Projection.Ptr())

	gl.Uniform1f(u.Location("uTime"), v.Time)
	gl.Uniform1f(u.Location("uWaveElevation"), v.WaveElevation)
	gl.Uniform2f(u.Location("uFrequency"), v.Frequency[0], v.Frequency[1])
	gl.Uniform1f(u.Location("uWaveSpeed"), v.WaveSpeed)
	gl.Uniform1f(u.Location("uSmallWaveElevation"), v.SmallWaveElevation)
	gl.Uniform1f(u.Location("uSmallWaveFrequency"), v.SmallWaveFrequency)
	gl.Uniform1f(u.Location("uSmallWaveSpeed"), v.SmallWaveSpeed)

	gl.Uniform3f(u.Location("uDepthColor"), v.DepthColor.R, v.DepthColor.G, v.DepthColor.B)
	gl.Uniform3f(u.Location("uSurfaceColor"), v.SurfaceColor.R, v.SurfaceColor.G, v.SurfaceColor.B)
	gl.Uniform1f(u.Location("uColorOffset"), v.ColorOffset)
	gl.Uniform1f(u.Location("uColorMultiplier"), v.ColorMultiplier)
}

// checkErrors drains the GL error queue. A fatal code wins over transient
// ones; otherwise the first transient code is returned.
func (r *Renderer) checkErrors(op string) error {
	var first error
	for i := 0; i < 8; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		err := gpu.Classify(op, code)
		if gpu.IsFatal(err) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}

// ReadPixels reads the last drawn frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	if r.target != nil {
		w, h := r.target.Size()
		return r.target.ReadPixels(), int(w), int(h)
	}
	pixels = make([]byte, int(r.width)*int(r.height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, r.width, r.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, int(r.width), int(r.height)
}

// Release frees the program and mesh handles. Zero handles are skipped.
func (r *Renderer) Release(program, mesh uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
		delete(r.uniforms, program)
	}
	if m, ok := r.meshes[mesh]; ok {
		r.deleteMesh(m)
		delete(r.meshes, mesh)
	}
}

func (r *Renderer) deleteMesh(m meshBuffers) {
	buffers := []uint32{m.positions, m.uvs, m.indices}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	gl.DeleteVertexArrays(1, &m.vao)
}

// Close releases everything the renderer still owns.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for vao, m := range r.meshes {
		r.deleteMesh(m)
		delete(r.meshes, vao)
	}
	if len(r.textures) > 0 {
		gl.DeleteTextures(int32(len(r.textures)), &r.textures[0])
		r.textures = nil
	}
	if r.background.vao != 0 {
		gl.DeleteVertexArrays(1, &r.background.vao)
		r.background.vao = 0
	}
	if r.background.program != 0 {
		gl.DeleteProgram(r.background.program)
		r.background.program = 0
	}
}
