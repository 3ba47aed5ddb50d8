package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/seascape/pkg/math"
)

// IdlePath moves the camera around a horizontal circle while the look-at
// point wanders, giving a slow panning view nobody has to drive.
type IdlePath struct {
	Radius       float32 // circle radius around the origin
	Height       float32 // camera Y
	AngularSpeed float32 // radians per second
}

// DefaultIdlePath returns the orbit used by the scene.
func DefaultIdlePath() IdlePath {
	return IdlePath{
		Radius:       3.0,
		Height:       0.23,
		AngularSpeed: 0.17,
	}
}

// Position returns the camera position at elapsed time t.
func (p IdlePath) Position(t float32) math.Vec3 {
	s, c := math32.Sincos(t * p.AngularSpeed)
	return math.Vec3{X: s * p.Radius, Y: p.Height, Z: c * p.Radius}
}

// Target returns the look-at point at elapsed time t.
func (p IdlePath) Target(t float32) math.Vec3 {
	s, c := math32.Sincos(t)
	return math.Vec3{X: c, Y: s * 0.5, Z: s}
}

// Apply moves cam to the path pose at time t.
func (p IdlePath) Apply(cam *Camera, t float32) {
	cam.Position = p.Position(t)
	cam.LookAt(p.Target(t))
}
