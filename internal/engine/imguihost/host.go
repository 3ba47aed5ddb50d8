// Package imguihost wraps the cimgui-go SDL backend used by the tuning host.
package imguihost

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Host owns the ImGui window and its GL context.
type Host struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// New creates the ImGui window and initializes GL function pointers for the
// scene renderer that shares its context.
func New(title string, width, height int, log *zap.Logger) (*Host, error) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Host{log: log}

	var err error
	h.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	h.backend.SetAfterCreateContextHook(func() {
		// No imgui.ini next to the binary.
		imgui.CurrentIO().SetIniFilename("")
	})
	h.backend.SetBgColor(imgui.NewVec4(0.08, 0.09, 0.11, 1.0))
	h.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	log.Info("imgui host created", zap.String("title", title), zap.Int("width", width), zap.Int("height", height))
	return h, nil
}

// Run blocks running frame once per display refresh until the window closes.
func (h *Host) Run(frame func()) {
	h.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (h *Host) SetWindowTitle(title string) {
	h.backend.SetWindowTitle(title)
}

// Close asks the backend to end the run loop after the current frame.
func (h *Host) Close() {
	h.backend.SetShouldClose(true)
}

// FramebufferScale is the physical pixels per logical pixel of the display.
func FramebufferScale() float32 {
	scale := imgui.CurrentIO().DisplayFramebufferScale()
	if scale.X <= 0 {
		return 1
	}
	return scale.X
}

// Image draws a GL texture at size logical pixels, flipping V because GL
// textures are stored bottom-up.
func Image(textureID uint32, size imgui.Vec2) {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
	imgui.ImageWithBgV(
		*texRef,
		size,
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
