package viewport

import (
	"testing"

	"github.com/Faultbox/seascape/internal/engine/camera"
)

type fakeRaster struct {
	w, h    int
	density float32
	calls   int
}

func (r *fakeRaster) SetSize(w, h int) {
	r.w, r.h = w, h
	r.calls++
}

func (r *fakeRaster) SetPixelDensity(d float32) {
	r.density = d
}

func TestResizeAppliesOnSync(t *testing.T) {
	cam := camera.New(75, 1, 0.1, 100)
	r := &fakeRaster{}
	b := New(cam, r, nil)

	b.Resize(1920, 1080, 2)
	if r.calls != 0 {
		t.Error("Resize must defer raster changes to Sync")
	}
	b.Sync()

	if cam.Aspect != float32(1920)/float32(1080) {
		t.Errorf("aspect = %v, want %v", cam.Aspect, float32(1920)/float32(1080))
	}
	if r.w != 3840 || r.h != 2160 {
		t.Errorf("raster = %dx%d, want 3840x2160", r.w, r.h)
	}
	if r.density != 2 {
		t.Errorf("density = %v, want 2", r.density)
	}
	if got := b.Current(); got != (Size{1920, 1080, 2}) {
		t.Errorf("Current() = %+v", got)
	}
}

func TestLatestResizeWins(t *testing.T) {
	cam := camera.New(75, 1, 0.1, 100)
	r := &fakeRaster{}
	b := New(cam, r, nil)

	b.Resize(800, 600, 1)
	b.Resize(1024, 512, 1)
	b.Sync()

	if cam.Aspect != 2 {
		t.Errorf("aspect = %v, want 2", cam.Aspect)
	}
	if r.calls != 1 {
		t.Errorf("expected a single raster resize, got %d", r.calls)
	}

	b.Sync()
	if r.calls != 1 {
		t.Error("Sync without a pending resize must be a no-op")
	}
}

func TestResizeIgnoresEmptyArea(t *testing.T) {
	cam := camera.New(75, 1.5, 0.1, 100)
	r := &fakeRaster{}
	b := New(cam, r, nil)

	b.ResizeNow(0, 600, 1)
	b.ResizeNow(800, -1, 1)
	if r.calls != 0 || cam.Aspect != 1.5 {
		t.Error("empty sizes must be ignored")
	}
}

func TestDefaultDensity(t *testing.T) {
	cam := camera.New(75, 1, 0.1, 100)
	r := &fakeRaster{}
	b := New(cam, r, nil)

	b.ResizeNow(640, 480, 0)
	if r.w != 640 || r.h != 480 || r.density != 1 {
		t.Errorf("got %dx%d @%v, want 640x480 @1", r.w, r.h, r.density)
	}
}

func TestFractionalDensityRounds(t *testing.T) {
	s := Size{Width: 1001, Height: 501, Density: 1.5}
	w, h := s.Physical()
	if w != 1502 || h != 752 {
		t.Errorf("Physical() = %dx%d, want 1502x752", w, h)
	}
}

func TestDetachIsIdempotent(t *testing.T) {
	cam := camera.New(75, 1, 0.1, 100)
	r := &fakeRaster{}
	b := New(cam, r, nil)

	b.Resize(800, 400, 1)
	b.Detach()
	b.Detach()
	b.Sync()
	b.ResizeNow(300, 100, 1)

	if r.calls != 0 {
		t.Errorf("detached binder resized the raster %d times", r.calls)
	}
	if cam.Aspect != 1 {
		t.Errorf("detached binder changed aspect to %v", cam.Aspect)
	}
}
