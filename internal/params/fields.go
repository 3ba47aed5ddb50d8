// Package params holds the live parameter set that shapes and colors the
// water surface, and the control surface through which it is mutated.
package params

import (
	"math"
	"strconv"
)

// Kind distinguishes scalar sliders from color pickers.
type Kind int

const (
	KindScalar Kind = iota
	KindColor
)

// Field names. These double as the GLSL uniform suffixes (uWaveElevation etc).
const (
	WaveElevation      = "waveElevation"
	FrequencyX         = "frequencyX"
	FrequencyY         = "frequencyY"
	WaveSpeed          = "waveSpeed"
	ColorOffset        = "colorOffset"
	ColorMultiplier    = "colorMultiplier"
	SmallWaveElevation = "smallWaveElevation"
	SmallWaveFrequency = "smallWaveFrequency"
	SmallWaveSpeed     = "smallWaveSpeed"
	DepthColor         = "depthColor"
	SurfaceColor       = "surfaceColor"
)

// Field describes one controllable entry of the parameter set.
type Field struct {
	Name    string
	Kind    Kind
	Default float32
	Min     float32
	Max     float32
	Step    float32
	// DefaultHex is the initial value of a color field.
	DefaultHex string
}

// fields is the fixed control layout, in panel order.
var fields = []Field{
	{Name: WaveElevation, Default: 0.38, Min: 0, Max: 1, Step: 0.01},
	{Name: FrequencyX, Default: 2.5, Min: 0, Max: 10, Step: 0.01},
	{Name: FrequencyY, Default: 2.5, Min: 0, Max: 10, Step: 0.01},
	{Name: WaveSpeed, Default: 0.75, Min: 0, Max: 4, Step: 0.001},
	{Name: ColorOffset, Default: 0.2, Min: 0, Max: 1, Step: 0.001},
	{Name: ColorMultiplier, Default: 9, Min: 0, Max: 10, Step: 0.001},
	{Name: SmallWaveElevation, Default: 0.15, Min: 0, Max: 3, Step: 0.01},
	{Name: SmallWaveFrequency, Default: 3, Min: 0, Max: 10, Step: 0.01},
	{Name: SmallWaveSpeed, Default: 0.2, Min: 0, Max: 1, Step: 0.01},
	{Name: DepthColor, Kind: KindColor, DefaultHex: "#2d81ae"},
	{Name: SurfaceColor, Kind: KindColor, DefaultHex: "#66c1f9"},
}

// Fields returns a copy of the field descriptors in panel order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Constrain snaps v to the field's step grid (anchored at Min) and clamps
// it into [Min, Max].
func (f Field) Constrain(v float32) float32 {
	if v != v { // NaN
		return f.Default
	}
	v = f.clamp(v)
	if f.Step > 0 {
		// Snap in float64 using the step's decimal value so that k steps
		// land on the same float32 as the literal k*step would.
		step := decimal(f.Step)
		steps := math.Floor((float64(v)-decimal(f.Min))/step + 0.5)
		v = f.clamp(float32(decimal(f.Min) + steps*step))
	}
	return v
}

// decimal widens v to the float64 nearest its shortest decimal form, so
// 0.01f becomes 0.01 rather than 0.009999999776.
func decimal(v float32) float64 {
	d, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return d
}

func (f Field) clamp(v float32) float32 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}
