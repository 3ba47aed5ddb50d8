package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/seascape/internal/config"
	"github.com/Faultbox/seascape/internal/engine/frameloop"
	"github.com/Faultbox/seascape/internal/engine/gpu"
	"github.com/Faultbox/seascape/internal/engine/scene"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/params"
)

// fakeSurface stands in for the GL renderer: it is both backend and raster.
type fakeSurface struct {
	uploads  int
	released int
	draws    []scene.DrawCall
	aspects  []float32
	failWith error

	w, h    int
	density float32
}

func (f *fakeSurface) CompileProgram(vs, fs string) (uint32, error) {
	if !strings.Contains(vs, "void main") {
		return 0, &gpu.CompileError{Stage: gpu.StageVertex, Log: "missing main"}
	}
	return 1, nil
}

func (f *fakeSurface) UploadMesh(grid *surface.Grid) (uint32, error) {
	f.uploads++
	return 2, nil
}

func (f *fakeSurface) Draw(call scene.DrawCall) error {
	f.draws = append(f.draws, call)
	return f.failWith
}

func (f *fakeSurface) Release(program, mesh uint32) { f.released++ }

func (f *fakeSurface) SetSize(w, h int)          { f.w, f.h = w, h }
func (f *fakeSurface) SetPixelDensity(d float32) { f.density = d }

func newTestApp(t *testing.T, cfg *config.Config, fs *fakeSurface, clock frameloop.Clock, onFatal func(error)) *App {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
		cfg.Surface.Segments = 4
	}
	a, err := New(Options{
		Config:  cfg,
		Backend: fs,
		Raster:  fs,
		Clock:   clock,
		OnFatal: onFatal,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestFramePublishesTimeAndCamera(t *testing.T) {
	fs := &fakeSurface{}
	clock := &frameloop.ManualClock{}
	a := newTestApp(t, nil, fs, clock, nil)

	if a.Frame() {
		t.Fatal("no frame should run before Start")
	}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.Advance(2)
	if !a.Frame() {
		t.Fatal("expected a frame after Start")
	}
	if len(fs.draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(fs.draws))
	}
	if got := fs.draws[0].Uniforms.Time; got != 2 {
		t.Errorf("expected time 2 in uniforms, got %v", got)
	}

	pos := a.Camera.Position
	if r := math32.Hypot(pos.X, pos.Z); math32.Abs(r-3) > 1e-4 {
		t.Errorf("camera off its orbit: radius %v", r)
	}
	if pos.Y != 0.23 {
		t.Errorf("expected camera height 0.23, got %v", pos.Y)
	}
}

func TestPanelWritesReachNextFrame(t *testing.T) {
	fs := &fakeSurface{}
	a := newTestApp(t, nil, fs, &frameloop.ManualClock{}, nil)
	a.Start()

	if _, err := a.Params.Set(params.WaveElevation, 0.5); err != nil {
		t.Fatal(err)
	}
	a.Frame()
	if got := fs.draws[0].Uniforms.WaveElevation; got != 0.5 {
		t.Errorf("expected waveElevation 0.5 in the draw, got %v", got)
	}
}

func TestResizeAppliedBeforeDraw(t *testing.T) {
	fs := &fakeSurface{}
	a := newTestApp(t, nil, fs, &frameloop.ManualClock{}, nil)
	a.Start()

	a.Resize(800, 400, 2)
	a.Frame()

	if a.Camera.Aspect != 2 {
		t.Errorf("expected aspect 2, got %v", a.Camera.Aspect)
	}
	if fs.w != 1600 || fs.h != 800 || fs.density != 2 {
		t.Errorf("expected raster 1600x800@2, got %dx%d@%v", fs.w, fs.h, fs.density)
	}
}

func TestInvalidShaderOverrideNeverUploads(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "broken.vert")
	if err := os.WriteFile(vert, []byte("#version 410 core\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Surface.Segments = 2
	cfg.Shaders.Vertex = vert

	fs := &fakeSurface{}
	_, err := New(Options{Config: cfg, Backend: fs, Raster: fs})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !gpu.IsCompileError(err) {
		t.Errorf("expected a compile error, got %v", err)
	}
	if fs.uploads != 0 {
		t.Errorf("mesh uploaded despite compile failure")
	}
}

func TestSurfaceLostStopsSession(t *testing.T) {
	fs := &fakeSurface{failWith: fmt.Errorf("draw surface: %w", gpu.ErrSurfaceLost)}
	var fatal []error
	a := newTestApp(t, nil, fs, &frameloop.ManualClock{}, func(err error) { fatal = append(fatal, err) })
	a.Start()

	a.Frame()
	if a.Running() {
		t.Error("session should stop after surface loss")
	}
	if !errors.Is(a.Err(), gpu.ErrSurfaceLost) {
		t.Errorf("expected ErrSurfaceLost, got %v", a.Err())
	}
	if len(fatal) != 1 {
		t.Errorf("expected one fatal callback, got %d", len(fatal))
	}
	if a.Frame() {
		t.Error("no frames after surface loss")
	}
}

func TestTransientFailureKeepsRunning(t *testing.T) {
	fs := &fakeSurface{failWith: &gpu.DrawError{Op: "draw surface", Code: 0x0502}}
	a := newTestApp(t, nil, fs, &frameloop.ManualClock{}, nil)
	a.Start()

	a.Frame()
	fs.failWith = nil
	if !a.Frame() {
		t.Fatal("loop should continue after a transient failure")
	}
	if a.Loop.TransientFailures() != 1 {
		t.Errorf("expected 1 transient failure, got %d", a.Loop.TransientFailures())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	fs := &fakeSurface{}
	a := newTestApp(t, nil, fs, &frameloop.ManualClock{}, nil)
	a.Start()
	a.Frame()

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if fs.released != 1 {
		t.Errorf("expected scene released once, got %d", fs.released)
	}
	if a.Frame() {
		t.Error("no frames after Close")
	}

	a.Resize(10, 10, 1)
	a.Viewport.Sync()
	if fs.w == 10 {
		t.Error("resize applied after Close")
	}
}

func TestPanelVisibilityFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Surface.Segments = 2
	cfg.Panel.Visible = true
	a := newTestApp(t, cfg, &fakeSurface{}, &frameloop.ManualClock{}, nil)
	if !a.Params.Visible() {
		t.Error("expected panel visible from config")
	}
}

func TestTelemetryWritesCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames.csv")
	cfg := config.Default()
	cfg.Surface.Segments = 2
	cfg.Telemetry.Window = 2
	cfg.Telemetry.Output = out

	a := newTestApp(t, cfg, &fakeSurface{}, &frameloop.ManualClock{}, nil)
	a.Start()
	for i := 0; i < 4; i++ {
		a.Frame()
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading telemetry: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header + 2 rows, got %d lines:\n%s", len(lines), data)
	}
}
