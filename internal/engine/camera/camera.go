// Package camera provides the perspective camera and the idle orbit path
// that drives it.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/seascape/pkg/math"
)

// Camera is a perspective camera. Aspect is the only field driven from
// outside (by the viewport binder); position and target are rewritten every
// frame by the render loop.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	FovY   float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	projection math.Mat4
}

// New creates a camera and computes its initial projection.
func New(fovY, aspect, near, far float32) *Camera {
	c := &Camera{
		Up:     math.Vec3{Y: 1},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	c.UpdateProjection()
	return c
}

// SetAspect changes the aspect ratio and rebuilds the projection.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjection()
}

// UpdateProjection rebuilds the cached projection from the current fields.
func (c *Camera) UpdateProjection() {
	c.projection = math.Perspective(c.FovY*math32.Pi/180, c.Aspect, c.Near, c.Far)
}

// Projection returns the cached projection matrix.
func (c *Camera) Projection() math.Mat4 {
	return c.projection
}

// View returns the view matrix for the current position and target.
func (c *Camera) View() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
}
