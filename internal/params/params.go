package params

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownField is returned for names outside the fixed field set.
var ErrUnknownField = errors.New("unknown parameter")

// ErrWrongKind is returned when a scalar accessor is used on a color field
// or the other way round.
var ErrWrongKind = errors.New("wrong parameter kind")

// Values is an immutable per-frame copy of the parameter set, as consumed by
// the displacement and shading stages.
type Values struct {
	Time float32

	WaveElevation float32
	Frequency     [2]float32
	WaveSpeed     float32

	SmallWaveElevation float32
	SmallWaveFrequency float32
	SmallWaveSpeed     float32

	ColorOffset     float32
	ColorMultiplier float32
	DepthColor      Color
	SurfaceColor    Color
}

// Defaults returns the initial parameter values.
func Defaults() Values {
	s := New()
	return s.Snapshot()
}

// Set is the live parameter set together with its control surface. It is
// created once per session and lives as long as the host.
//
// All access is guarded so widget adapters may run on a different goroutine
// than the render loop; the render loop reads a Snapshot once per frame so a
// draw never observes a half-applied write.
type Set struct {
	mu      sync.RWMutex
	scalars map[string]float32
	colors  map[string]Color
	hex     map[string]string
	time    float32
	visible bool
}

// New returns a parameter set initialised to the field defaults. The panel
// starts hidden.
func New() *Set {
	s := &Set{
		scalars: make(map[string]float32),
		colors:  make(map[string]Color),
		hex:     make(map[string]string),
	}
	for _, f := range fields {
		switch f.Kind {
		case KindColor:
			c, err := ParseHex(f.DefaultHex)
			if err != nil {
				panic(fmt.Sprintf("params: bad default for %s: %v", f.Name, err))
			}
			s.colors[f.Name] = c
			s.hex[f.Name] = f.DefaultHex
		default:
			s.scalars[f.Name] = f.Default
		}
	}
	return s
}

// Set writes a scalar field. The value is snapped to the field step and
// clamped to its range; the stored value is returned and is visible to the
// next Get or Snapshot.
func (s *Set) Set(name string, v float32) (float32, error) {
	f, ok := lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if f.Kind != KindScalar {
		return 0, fmt.Errorf("%w: %q is a color", ErrWrongKind, name)
	}
	v = f.Constrain(v)

	s.mu.Lock()
	s.scalars[name] = v
	s.mu.Unlock()
	return v, nil
}

// Get reads a scalar field.
func (s *Set) Get(name string) (float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.scalars[name]
	if !ok {
		if _, isColor := s.colors[name]; isColor {
			return 0, fmt.Errorf("%w: %q is a color", ErrWrongKind, name)
		}
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// SetColor writes a color field from its picker representation and updates
// the derived RGB value.
func (s *Set) SetColor(name, hex string) error {
	f, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if f.Kind != KindColor {
		return fmt.Errorf("%w: %q is a scalar", ErrWrongKind, name)
	}
	c, err := ParseHex(hex)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.colors[name] = c
	s.hex[name] = c.Hex()
	s.mu.Unlock()
	return nil
}

// SetColorRGB writes a color field from float components, as produced by
// picker widgets. Components are clamped to [0, 1].
func (s *Set) SetColorRGB(name string, c Color) error {
	return s.SetColor(name, c.Hex())
}

// Color reads a color field.
func (s *Set) Color(name string) (Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.colors[name]
	if !ok {
		if _, isScalar := s.scalars[name]; isScalar {
			return Color{}, fmt.Errorf("%w: %q is a scalar", ErrWrongKind, name)
		}
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return c, nil
}

// ColorHex reads a color field in its picker representation.
func (s *Set) ColorHex(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hex[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return h, nil
}

// SetTime records the elapsed animation time. Only the render loop calls
// this; it is not a panel control.
func (s *Set) SetTime(t float32) {
	s.mu.Lock()
	s.time = t
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of every value.
func (s *Set) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Values{
		Time:               s.time,
		WaveElevation:      s.scalars[WaveElevation],
		Frequency:          [2]float32{s.scalars[FrequencyX], s.scalars[FrequencyY]},
		WaveSpeed:          s.scalars[WaveSpeed],
		SmallWaveElevation: s.scalars[SmallWaveElevation],
		SmallWaveFrequency: s.scalars[SmallWaveFrequency],
		SmallWaveSpeed:     s.scalars[SmallWaveSpeed],
		ColorOffset:        s.scalars[ColorOffset],
		ColorMultiplier:    s.scalars[ColorMultiplier],
		DepthColor:         s.colors[DepthColor],
		SurfaceColor:       s.colors[SurfaceColor],
	}
}

// Visible reports whether the control panel is shown. Bindings stay live
// either way.
func (s *Set) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// SetVisible shows or hides the control panel.
func (s *Set) SetVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
}

// ToggleVisible flips panel visibility and returns the new state.
func (s *Set) ToggleVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = !s.visible
	return s.visible
}
