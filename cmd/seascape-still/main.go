// Package main renders one frame of the seascape to a PNG without a window
// or GL context.
//
// Usage:
//
//	seascape-still -t 4.2 -out frame.png -set waveElevation=0.6 -color surfaceColor=#88ccff
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/config"
	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/capture"
	"github.com/Faultbox/seascape/internal/engine/still"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/engine/texture"
	"github.com/Faultbox/seascape/internal/logger"
	"github.com/Faultbox/seascape/internal/params"
)

// assignments collects repeated name=value flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(s string) error {
	if !strings.Contains(s, "=") {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*a = append(*a, s)
	return nil
}

var (
	flagTime   = flag.Float64("t", 0, "Elapsed animation time in seconds")
	flagOut    = flag.String("out", "seascape.png", "Output PNG path")
	flagValues assignments
	flagColors assignments
)

func init() {
	flag.Var(&flagValues, "set", "Set a parameter, name=value (repeatable)")
	flag.Var(&flagColors, "color", "Set a color, name=#rrggbb (repeatable)")
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := render(cfg, logger.Named("still")); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func render(cfg *config.Config, log *zap.Logger) error {
	set := params.New()
	if err := apply(set, log); err != nil {
		return err
	}
	t := float32(*flagTime)
	set.SetTime(t)

	grid, err := surface.NewGrid(cfg.Surface.Size, cfg.Surface.Segments)
	if err != nil {
		return fmt.Errorf("build grid: %w", err)
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	cam := camera.New(cfg.Camera.FovY, float32(w)/float32(h), cfg.Camera.Near, cfg.Camera.Far)
	path := camera.IdlePath{
		Radius:       cfg.Camera.OrbitRadius,
		Height:       cfg.Camera.OrbitHeight,
		AngularSpeed: cfg.Camera.AngularSpeed,
	}
	path.Apply(cam, t)

	r := &still.Renderer{
		Width:  w,
		Height: h,
		Grid:   grid,
		Camera: cam,
		Clear:  color.RGBA{R: 135, G: 186, B: 222, A: 255}, // same sky blue as the GL renderer
	}
	if cfg.Background.Path != "" {
		bg, err := texture.Load(cfg.Background.Path)
		if err != nil {
			log.Warn("background unavailable, using clear color",
				zap.String("path", cfg.Background.Path), zap.Error(err))
		} else {
			r.Background = bg
		}
	}

	img := r.Render(set.Snapshot())
	if err := capture.WritePNG(*flagOut, img); err != nil {
		return err
	}
	log.Info("frame written",
		zap.String("path", *flagOut),
		zap.Float32("time", t),
		zap.Int("width", w),
		zap.Int("height", h))
	return nil
}

// apply routes the command-line assignments through the control surface so
// they get the same clamping and snapping as the panel.
func apply(set *params.Set, log *zap.Logger) error {
	for _, a := range flagValues {
		name, raw, _ := strings.Cut(a, "=")
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		stored, err := set.Set(name, float32(v))
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		if stored != float32(v) {
			log.Warn("parameter adjusted",
				zap.String("name", name),
				zap.Float64("requested", v),
				zap.Float32("stored", stored))
		}
	}
	for _, a := range flagColors {
		name, hex, _ := strings.Cut(a, "=")
		if err := set.SetColor(name, hex); err != nil {
			return fmt.Errorf("color %s: %w", name, err)
		}
	}
	return nil
}
