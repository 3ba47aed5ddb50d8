// Package main is the seascape viewer: an SDL2 window showing the animated
// water surface, with a keyboard-driven control panel (F1).
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/app"
	"github.com/Faultbox/seascape/internal/config"
	"github.com/Faultbox/seascape/internal/engine/capture"
	"github.com/Faultbox/seascape/internal/engine/input"
	"github.com/Faultbox/seascape/internal/engine/renderer"
	"github.com/Faultbox/seascape/internal/engine/texture"
	"github.com/Faultbox/seascape/internal/engine/window"
	"github.com/Faultbox/seascape/internal/logger"
	"github.com/Faultbox/seascape/internal/ui"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.DumpPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Dump config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Seascape ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := newViewer(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}

	runErr := v.run()
	v.close()
	if runErr != nil {
		logger.Error("viewer stopped", zap.Error(runErr))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// viewer is the SDL host around one app session.
type viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *app.App
	keyboard *ui.Keyboard
	shots    *capture.Screenshots

	screenshotRequested bool
	quit                bool
	lastStatus          string
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{
		cfg:   cfg,
		log:   logger.Named("viewer"),
		input: input.New(),
		shots: capture.NewScreenshots("screenshots", "seascape"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		HighDPI:    cfg.Window.HighDPI,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just created.
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Options{
		Width:  dw,
		Height: dh,
		Logger: logger.Named("renderer"),
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.session, err = app.New(app.Options{
		Config:     cfg,
		Backend:    v.renderer,
		Raster:     v.renderer,
		Background: v.loadBackground(),
		Logger:     logger.Log,
	})
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, err
	}

	w, h := v.window.GetSize()
	v.session.Viewport.ResizeNow(w, h, v.window.PixelDensity())
	v.keyboard = ui.NewKeyboard(v.session.Params, logger.Named("panel"))
	return v, nil
}

// loadBackground uploads the sky image. Any failure falls back to the clear
// color rather than aborting.
func (v *viewer) loadBackground() uint32 {
	path := v.cfg.Background.Path
	if path == "" {
		return 0
	}
	img, err := texture.Load(path)
	if err != nil {
		v.log.Warn("sky background unavailable, using clear color", zap.Error(err))
		return 0
	}
	tex, err := v.renderer.UploadBackground(img)
	if err != nil {
		v.log.Warn("sky background upload failed", zap.Error(err))
		return 0
	}
	return tex
}

func (v *viewer) run() error {
	if err := v.session.Start(); err != nil {
		return err
	}

	for v.session.Running() {
		if v.input.Update() {
			v.log.Info("window closed")
			return nil
		}
		v.handleEvents()
		if v.quit {
			return nil
		}

		v.session.Frame()

		if v.screenshotRequested {
			v.screenshotRequested = false
			v.saveScreenshot()
		}

		v.window.SwapBuffers()
	}

	return v.session.Err()
}

func (v *viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventResize:
			v.session.Resize(e.Width, e.Height, v.window.PixelDensity())
		case input.EventKeyDown:
			v.handleKey(e)
		}
	}

	if status := v.keyboard.Status(); status != v.lastStatus {
		v.lastStatus = status
		title := v.cfg.Window.Title
		if status != "" {
			title += "  |  " + status
		}
		v.window.SetTitle(title)
	}
}

func (v *viewer) handleKey(e input.Event) {
	switch e.Key {
	case sdl.K_ESCAPE:
		// First press closes the panel, second quits.
		if v.session.Params.Visible() {
			v.session.Params.SetVisible(false)
		} else {
			v.quit = true
		}
		return
	case sdl.K_F12:
		if !e.Repeat {
			v.screenshotRequested = true
		}
		return
	}

	action := ui.ActionForKey(e.Key, e.Mod)
	if action == ui.ActionTogglePanel && e.Repeat {
		return
	}
	v.keyboard.Handle(action)
}

func (v *viewer) saveScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) close() {
	if err := v.session.Close(); err != nil {
		v.log.Warn("closing session", zap.Error(err))
	}
	v.renderer.Close()
	v.window.Close()
}
