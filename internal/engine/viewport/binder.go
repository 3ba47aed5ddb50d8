// Package viewport keeps the camera projection and the raster buffer in step
// with the drawable area.
package viewport

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/engine/camera"
)

// Raster is the output buffer being drawn into.
type Raster interface {
	// SetSize resizes the buffer in physical pixels.
	SetSize(width, height int)
	// SetPixelDensity records the physical pixels per logical pixel.
	SetPixelDensity(density float32)
}

// Size is a drawable area in logical pixels plus its pixel density.
type Size struct {
	Width, Height int
	Density       float32
}

// Physical returns the size scaled by the density.
func (s Size) Physical() (int, int) {
	d := s.Density
	if d <= 0 {
		d = 1
	}
	return int(float32(s.Width)*d + 0.5), int(float32(s.Height)*d + 0.5)
}

// Binder reacts to size changes. Resize may be called from any goroutine;
// Sync runs on the render goroutine and applies the newest pending size.
type Binder struct {
	cam    *camera.Camera
	raster Raster
	log    *zap.Logger

	mu       sync.Mutex
	pending  *Size
	current  Size
	detached bool
}

// New binds cam and raster. log may be nil.
func New(cam *camera.Camera, raster Raster, log *zap.Logger) *Binder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Binder{cam: cam, raster: raster, log: log}
}

// Resize records a new drawable size. Zero or negative sizes (minimised
// windows) are ignored. Later calls before the next Sync replace earlier ones.
func (b *Binder) Resize(width, height int, density float32) {
	if width <= 0 || height <= 0 {
		return
	}
	if density <= 0 {
		density = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached {
		return
	}
	b.pending = &Size{Width: width, Height: height, Density: density}
}

// Sync applies the pending size, if any: camera aspect, projection, raster
// size and density. The render loop calls it before every draw.
func (b *Binder) Sync() {
	b.mu.Lock()
	s := b.pending
	b.pending = nil
	if s == nil || b.detached {
		b.mu.Unlock()
		return
	}
	b.current = *s
	b.mu.Unlock()

	b.cam.SetAspect(float32(s.Width) / float32(s.Height))
	pw, ph := s.Physical()
	b.raster.SetSize(pw, ph)
	b.raster.SetPixelDensity(s.Density)

	b.log.Debug("viewport resized",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Float32("density", s.Density),
	)
}

// ResizeNow records and immediately applies a size. Only call it from the
// render goroutine.
func (b *Binder) ResizeNow(width, height int, density float32) {
	b.Resize(width, height, density)
	b.Sync()
}

// Current returns the last applied size.
func (b *Binder) Current() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Detach stops observing size changes. Safe to call repeatedly.
func (b *Binder) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detached = true
	b.pending = nil
}
