// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/seascape/internal/engine/gpu"
)

// CompileProgram compiles vertex and fragment shaders and links them into a
// program. Failures are *gpu.CompileError carrying the driver log.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, gpu.StageVertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, gpu.StageFragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, &gpu.CompileError{Stage: gpu.StageLink, Log: log}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, stage gpu.Stage) (uint32, error) {
	if strings.TrimSpace(source) == "" {
		return 0, &gpu.CompileError{Stage: stage, Log: "empty source"}
	}

	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, &gpu.CompileError{Stage: stage, Log: log}
	}

	return shader, nil
}

// infoLog reads a driver log of n bytes, trimming the trailing NUL.
func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no driver log"
	}
	buf := make([]byte, n)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// Uniforms caches uniform locations for one program. Inactive uniforms
// resolve to -1, which GL ignores on upload.
type Uniforms struct {
	program uint32
	cache   map[string]int32
}

// NewUniforms returns a location cache for program.
func NewUniforms(program uint32) *Uniforms {
	return &Uniforms{program: program, cache: make(map[string]int32)}
}

// Location returns the location of name, querying the driver once.
func (u *Uniforms) Location(name string) int32 {
	if loc, ok := u.cache[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(u.program, gl.Str(name+"\x00"))
	u.cache[name] = loc
	return loc
}
