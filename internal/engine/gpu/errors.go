// Package gpu defines how graphics failures are reported: construction-time
// compile failures, the fatal loss of the drawing surface, and transient
// draw errors that the render loop rides out.
package gpu

import (
	"errors"
	"fmt"
)

// ErrSurfaceLost means the drawing surface is gone and must be recreated.
// The render loop stops rescheduling when it sees this.
var ErrSurfaceLost = errors.New("drawing surface lost")

// Stage identifies a shader stage.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// CompileError reports a shader compile or link failure with the driver log.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("shader link: %s", e.Log)
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// DrawError is a recoverable failure of a single draw.
type DrawError struct {
	Op   string
	Code uint32
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("%s: gl error 0x%04x", e.Op, e.Code)
}

// IsFatal reports whether err should stop the render loop.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSurfaceLost)
}

// IsCompileError reports whether err is, or wraps, a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// GL error codes the classifier distinguishes. CONTEXT_LOST is core only
// from 4.5 so it is not in the 4.1 bindings.
const (
	glNoError     = 0
	glContextLost = 0x0507
)

// Classify turns a glGetError code observed after op into an error. A lost
// context means the surface is gone; every other code is a transient
// DrawError.
func Classify(op string, code uint32) error {
	switch code {
	case glNoError:
		return nil
	case glContextLost:
		return fmt.Errorf("%s: %w", op, ErrSurfaceLost)
	}
	return &DrawError{Op: op, Code: code}
}
