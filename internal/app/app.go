// Package app owns one viewing session: the parameter set, the composed
// scene, the viewport binder, the render loop and its telemetry. Hosts
// create it once their drawable surface exists and close it on teardown.
package app

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/config"
	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/frameloop"
	"github.com/Faultbox/seascape/internal/engine/scene"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/engine/viewport"
	"github.com/Faultbox/seascape/internal/params"
	"github.com/Faultbox/seascape/internal/telemetry"
)

// Options wire an App to its host.
type Options struct {
	Config  *config.Config
	Backend scene.Backend
	// Raster receives size changes. The window backend usually serves as
	// both; the tuner passes its offscreen framebuffer here.
	Raster viewport.Raster
	// Background is an uploaded sky texture, or 0.
	Background uint32

	// Optional.
	Clock   frameloop.Clock
	OnFatal func(error)
	Logger  *zap.Logger
}

// App is the session context.
type App struct {
	Params    *params.Set
	Camera    *camera.Camera
	Scene     *scene.Graph
	Viewport  *viewport.Binder
	Loop      *frameloop.Loop
	Telemetry *telemetry.Recorder

	pump *frameloop.Pump
	sink *telemetry.CSVSink
	log  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// New composes the session. The scene is compiled before anything else
// touches the backend, so a bad shader leaves the surface untouched.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Backend == nil || opts.Raster == nil {
		return nil, errors.New("app: backend and raster are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		Params: params.New(),
		pump:   &frameloop.Pump{},
		log:    log,
	}
	a.Params.SetVisible(cfg.Panel.Visible)

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	a.Camera = camera.New(cfg.Camera.FovY, aspect, cfg.Camera.Near, cfg.Camera.Far)
	path := camera.IdlePath{
		Radius:       cfg.Camera.OrbitRadius,
		Height:       cfg.Camera.OrbitHeight,
		AngularSpeed: cfg.Camera.AngularSpeed,
	}
	path.Apply(a.Camera, 0)

	grid, err := surface.NewGrid(cfg.Surface.Size, cfg.Surface.Segments)
	if err != nil {
		return nil, err
	}

	sources, err := shaderSources(cfg)
	if err != nil {
		return nil, err
	}

	a.Scene, err = scene.New(opts.Backend, scene.Options{
		Sources:    sources,
		Grid:       grid,
		Camera:     a.Camera,
		Background: opts.Background,
		Logger:     log.Named("scene"),
	})
	if err != nil {
		return nil, err
	}

	a.Viewport = viewport.New(a.Camera, opts.Raster, log.Named("viewport"))

	a.sink, err = telemetry.NewCSVSink(cfg.Telemetry.Output)
	if err != nil {
		a.Scene.Close()
		return nil, err
	}
	var sink telemetry.Sink
	if a.sink != nil {
		sink = a.sink
	}
	a.Telemetry = telemetry.NewRecorder(cfg.Telemetry.Budget, cfg.Telemetry.Window, sink, log.Named("telemetry"))

	clock := opts.Clock
	if clock == nil {
		clock = frameloop.NewMonotonicClock()
	}
	a.Loop, err = frameloop.New(frameloop.Config{
		Clock:     clock,
		Scheduler: a.pump,
		Params:    a.Params,
		Camera:    a.Camera,
		Path:      path,
		Scene:     a.Scene,
		Viewport:  a.Viewport,
		Observer:  a.Telemetry,
		OnFatal:   opts.OnFatal,
		Logger:    log.Named("frameloop"),
	})
	if err != nil {
		a.Scene.Close()
		a.sink.Close()
		return nil, err
	}

	return a, nil
}

func shaderSources(cfg *config.Config) (scene.Sources, error) {
	src := scene.DefaultSources()
	vs, fs, err := cfg.ReadShaders()
	if err != nil {
		return src, fmt.Errorf("shader override: %w", err)
	}
	if vs != "" {
		src.Vertex = vs
	}
	if fs != "" {
		src.Fragment = fs
	}
	return src, nil
}

// Start begins animating. The first frame runs on the next Frame call.
func (a *App) Start() error {
	return a.Loop.Start()
}

// Frame runs the pending render cycle, if any. Hosts call it once per
// display refresh; it reports whether a frame was drawn.
func (a *App) Frame() bool {
	before := a.Loop.Frames()
	a.pump.Fire()
	return a.Loop.Frames() > before
}

// Resize forwards a drawable-size change in logical pixels. It is applied at
// the start of the next frame.
func (a *App) Resize(width, height int, density float32) {
	a.Viewport.Resize(width, height, density)
}

// Running reports whether the loop still schedules frames.
func (a *App) Running() bool {
	return a.Loop.State() == frameloop.StateRunning
}

// Err returns the fatal error that stopped the loop, if any.
func (a *App) Err() error {
	return a.Loop.Err()
}

// Close stops the loop, detaches the binder and releases the scene. Safe to
// call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.Loop.Stop()
		a.Viewport.Detach()
		a.Scene.Close()
		a.closeErr = a.sink.Close()
		a.log.Info("session closed",
			zap.Uint64("frames", a.Loop.Frames()),
			zap.Uint64("transient_failures", a.Loop.TransientFailures()),
		)
	})
	return a.closeErr
}
