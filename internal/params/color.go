package params

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/seascape/pkg/math"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// ParseHex parses "#rrggbb" or "rrggbb" into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}, nil
}

// Hex formats c as "#rrggbb", clamping each channel.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// Vec3 returns the color as a vector, for blending.
func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// ColorFromVec3 is the inverse of Vec3. No clamping is applied.
func ColorFromVec3(v math.Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(roundHalfUp(v * 255))
}

func roundHalfUp(v float32) float32 {
	if v < 0 {
		return -float32(int64(-v + 0.5))
	}
	return float32(int64(v + 0.5))
}
