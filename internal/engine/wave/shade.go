package wave

import (
	"github.com/Faultbox/seascape/internal/params"
	"github.com/Faultbox/seascape/pkg/math"
)

// BlendFactor maps an elevation to the depth/surface interpolation weight.
func BlendFactor(elevation float32, p *params.Values) float32 {
	return (elevation + p.ColorOffset) * p.ColorMultiplier
}

// Shade returns the pixel color for an elevation. The weight is not clamped,
// so colors may overshoot past surfaceColor or below depthColor.
func Shade(elevation float32, p *params.Values) params.Color {
	w := BlendFactor(elevation, p)
	return params.ColorFromVec3(math.Lerp(p.DepthColor.Vec3(), p.SurfaceColor.Vec3(), w))
}
