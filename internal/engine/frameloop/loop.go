// Package frameloop drives the animation: once per refresh signal it samples
// the clock, publishes the time to the parameter set, moves the camera along
// its idle path, draws the scene and schedules itself again.
package frameloop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/gpu"
	"github.com/Faultbox/seascape/internal/params"
)

// State is the loop lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNotIdle is returned by Start when the loop has already been started.
var ErrNotIdle = errors.New("frameloop: already started")

// Drawer draws one frame from a parameter snapshot.
type Drawer interface {
	Draw(v params.Values) error
}

// Syncer applies pending viewport changes before a frame is drawn.
type Syncer interface {
	Sync()
}

// FrameStats describes one completed cycle.
type FrameStats struct {
	Index    uint64
	Elapsed  float32       // clock time the frame was drawn at
	Duration time.Duration // wall time spent in the cycle
	Err      error
}

// Observer receives per-frame statistics.
type Observer interface {
	FrameDone(s FrameStats)
}

// Config wires a Loop.
type Config struct {
	Clock     Clock
	Scheduler Scheduler
	Params    *params.Set
	Camera    *camera.Camera
	Path      camera.IdlePath
	Scene     Drawer

	// Optional.
	Viewport Syncer
	Observer Observer
	// OnFatal is called once when the drawing surface is lost.
	OnFatal func(error)
	Logger  *zap.Logger
	// Now measures cycle duration; defaults to time.Now.
	Now func() time.Time
}

// Loop is the render loop. All methods except Err and State must be called
// from the render goroutine.
type Loop struct {
	cfg Config
	log *zap.Logger

	mu    sync.Mutex
	state State
	err   error

	frames    uint64
	transient uint64
}

// New validates cfg and returns an idle loop.
func New(cfg Config) (*Loop, error) {
	if cfg.Clock == nil || cfg.Scheduler == nil || cfg.Params == nil || cfg.Camera == nil || cfg.Scene == nil {
		return nil, errors.New("frameloop: clock, scheduler, params, camera and scene are required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{cfg: cfg, log: log}, nil
}

// Start schedules the first frame.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return ErrNotIdle
	}
	l.state = StateRunning
	l.mu.Unlock()

	l.log.Debug("render loop started")
	l.cfg.Scheduler.RequestFrame(l.cycle)
	return nil
}

// Stop prevents any further frames. Safe to call repeatedly and before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateStopped {
		return
	}
	l.state = StateStopped
	l.log.Debug("render loop stopped", zap.Uint64("frames", l.frames))
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the fatal error that stopped the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Frames returns the number of cycles that issued a draw.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// TransientFailures returns the number of draws that failed recoverably.
func (l *Loop) TransientFailures() uint64 {
	return l.transient
}

func (l *Loop) running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateRunning
}

// cycle is one frame. It is the callback handed to the scheduler.
func (l *Loop) cycle() {
	if !l.running() {
		return
	}
	begin := l.cfg.Now()

	// Resizes land before the draw that would otherwise use stale geometry.
	if l.cfg.Viewport != nil {
		l.cfg.Viewport.Sync()
	}

	t := l.cfg.Clock.Elapsed()
	l.cfg.Params.SetTime(t)
	l.cfg.Path.Apply(l.cfg.Camera, t)

	err := l.cfg.Scene.Draw(l.cfg.Params.Snapshot())
	l.frames++

	if l.cfg.Observer != nil {
		l.cfg.Observer.FrameDone(FrameStats{
			Index:    l.frames,
			Elapsed:  t,
			Duration: l.cfg.Now().Sub(begin),
			Err:      err,
		})
	}

	if err != nil {
		if gpu.IsFatal(err) {
			l.fail(err)
			return
		}
		l.transient++
		l.log.Warn("frame draw failed", zap.Error(err), zap.Uint64("frame", l.frames))
	}

	if l.running() {
		l.cfg.Scheduler.RequestFrame(l.cycle)
	}
}

func (l *Loop) fail(err error) {
	l.mu.Lock()
	if l.state == StateStopped {
		l.mu.Unlock()
		return
	}
	l.state = StateStopped
	l.err = err
	l.mu.Unlock()

	l.log.Error("drawing surface lost, render loop stopped", zap.Error(err), zap.Uint64("frame", l.frames))
	if l.cfg.OnFatal != nil {
		l.cfg.OnFatal(err)
	}
}
