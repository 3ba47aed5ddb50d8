// Package wave is the reference implementation of the surface displacement
// and shading stages. The GLSL in scene/shaders evaluates the same formulas
// on the GPU; this package is what tests and the still renderer run.
package wave

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/seascape/internal/params"
	"github.com/Faultbox/seascape/pkg/math"
)

// Elevation returns the height of the surface at base position (x, z) and
// time t. The result is the plain sum of the traveling wave and the ripple
// term; large parameters may overshoot and that is left alone.
func Elevation(x, z, t float32, p *params.Values) float32 {
	return BigWave(x, z, t, p) + Ripple(x, z, t, p)
}

// BigWave is the large traveling wave: a sine of the dot product between the
// position and the frequency vector, phase shifted by t * speed.
func BigWave(x, z, t float32, p *params.Values) float32 {
	phase := x*p.Frequency[0] + z*p.Frequency[1] + t*p.WaveSpeed
	return p.WaveElevation * math32.Sin(phase)
}

// Ripple is the small radial term driven by the distance from the origin.
func Ripple(x, z, t float32, p *params.Values) float32 {
	r := math32.Hypot(x, z)
	return p.SmallWaveElevation * math32.Sin(r*p.SmallWaveFrequency+t*p.SmallWaveSpeed)
}

// Displace moves a base grid vertex to its animated position and returns
// the elevation scalar used by the shading stage.
func Displace(base math.Vec3, t float32, p *params.Values) (math.Vec3, float32) {
	e := Elevation(base.X, base.Z, t, p)
	return math.Vec3{X: base.X, Y: base.Y + e, Z: base.Z}, e
}

// Period returns the time after which the traveling wave repeats, or 0 when
// the wave is static.
func Period(p *params.Values) float32 {
	if p.WaveSpeed == 0 {
		return 0
	}
	return 2 * math32.Pi / p.WaveSpeed
}
