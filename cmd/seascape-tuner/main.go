// Package main is the seascape tuner: the same scene rendered offscreen and
// shown inside an ImGui window, with slider and color-picker controls for
// every surface parameter.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/app"
	"github.com/Faultbox/seascape/internal/config"
	"github.com/Faultbox/seascape/internal/engine/capture"
	"github.com/Faultbox/seascape/internal/engine/framebuffer"
	"github.com/Faultbox/seascape/internal/engine/imguihost"
	"github.com/Faultbox/seascape/internal/engine/renderer"
	"github.com/Faultbox/seascape/internal/engine/texture"
	"github.com/Faultbox/seascape/internal/logger"
	"github.com/Faultbox/seascape/internal/ui"
)

func init() {
	runtime.LockOSThread()
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

	logger.Info("=== Seascape Tuner ===")

	t, err := newTuner(cfg)
	if err != nil {
		logger.Error("failed to start tuner", zap.Error(err))
		os.Exit(1)
	}

	t.host.Run(t.frame)
	t.close()

	if err := t.session.Err(); err != nil {
		logger.Error("tuner stopped", zap.Error(err))
		os.Exit(1)
	}
}

type tuner struct {
	log      *zap.Logger
	host     *imguihost.Host
	renderer *renderer.Renderer
	target   *framebuffer.Framebuffer
	session  *app.App
	panel    *ui.Panel
	shots    *capture.Screenshots

	lastSize imgui.Vec2
	closed   bool
}

func newTuner(cfg *config.Config) (*tuner, error) {
	t := &tuner{
		log:   logger.Named("tuner"),
		shots: capture.NewScreenshots("screenshots", "seascape-tuner"),
	}

	var err error
	t.host, err = imguihost.New(cfg.Window.Title+" Tuner", cfg.Window.Width, cfg.Window.Height, logger.Named("imgui"))
	if err != nil {
		return nil, err
	}

	t.renderer, err = renderer.New(renderer.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Logger: logger.Named("renderer"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	t.target, err = framebuffer.New(int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		t.renderer.Close()
		return nil, err
	}
	t.renderer.SetTarget(t.target)

	var background uint32
	if cfg.Background.Path != "" {
		if img, err := texture.Load(cfg.Background.Path); err != nil {
			t.log.Warn("sky background unavailable, using clear color", zap.Error(err))
		} else if background, err = t.renderer.UploadBackground(img); err != nil {
			t.log.Warn("sky background upload failed", zap.Error(err))
		}
	}

	// The panel is the point of this host, so it starts visible.
	cfg.Panel.Visible = true
	t.session, err = app.New(app.Options{
		Config:     cfg,
		Backend:    t.renderer,
		Raster:     t.target,
		Background: background,
		OnFatal:    func(error) { t.host.Close() },
		Logger:     logger.Log,
	})
	if err != nil {
		t.target.Destroy()
		t.renderer.Close()
		return nil, err
	}
	t.panel = ui.NewPanel(t.session.Params, logger.Named("panel"))

	if err := t.session.Start(); err != nil {
		t.close()
		return nil, err
	}
	return t, nil
}

// frame runs inside the ImGui frame callback, once per display refresh.
func (t *tuner) frame() {
	if t.closed {
		return
	}
	t.panel.HandleKeys()

	viewport := imgui.MainViewport()
	imgui.SetNextWindowPos(viewport.WorkPos())
	imgui.SetNextWindowSize(viewport.WorkSize())
	flags := imgui.WindowFlagsNoDecoration | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoSavedSettings
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##Scene", nil, flags) {
		avail := imgui.ContentRegionAvail()
		// The content region is the size-change signal for this host.
		if avail != t.lastSize {
			t.lastSize = avail
			t.session.Resize(int(avail.X), int(avail.Y), imguihost.FramebufferScale())
		}

		t.session.Frame()
		imguihost.Image(t.target.ColorTexture(), avail)
	}
	imgui.End()
	imgui.PopStyleVar()

	t.panel.Draw()
	t.drawStats()

	if imguihost.IsKeyPressed(imgui.KeyF12) {
		t.saveScreenshot()
	}
	if imguihost.IsKeyPressed(imgui.KeyEscape) && !t.session.Params.Visible() {
		t.host.Close()
	}
}

func (t *tuner) drawStats() {
	if !t.session.Params.Visible() {
		return
	}
	sum := t.session.Telemetry.Last()
	if sum.Frames == 0 {
		return
	}
	imgui.SetNextWindowPosV(imgui.NewVec2(12, 0), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	if imgui.BeginV("Frame timing", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text(fmt.Sprintf("mean %.2f ms  p99 %.2f ms", sum.MeanMS, sum.P99MS))
		imgui.Text(fmt.Sprintf("over budget %d / %d", sum.OverBudget, sum.Frames))
	}
	imgui.End()
}

func (t *tuner) saveScreenshot() {
	w, h := t.target.Size()
	path, err := t.shots.SavePixels(t.target.ReadPixels(), int(w), int(h))
	if err != nil {
		t.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	t.log.Info("screenshot saved", zap.String("path", path))
}

func (t *tuner) close() {
	if t.closed {
		return
	}
	t.closed = true
	if err := t.session.Close(); err != nil {
		t.log.Warn("closing session", zap.Error(err))
	}
	t.target.Destroy()
	t.renderer.Close()
}
