package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/params"
)

// Panel renders the parameter set as an ImGui window of sliders and color
// pickers. It must be drawn from inside the ImGui frame callback.
type Panel struct {
	set    *params.Set
	fields []params.Field
	log    *zap.Logger
}

// NewPanel binds an ImGui panel to set.
func NewPanel(set *params.Set, log *zap.Logger) *Panel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Panel{set: set, fields: params.Fields(), log: log}
}

// HandleKeys applies the panel's global shortcuts. F1 toggles visibility.
func (p *Panel) HandleKeys() {
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF1)) {
		p.set.ToggleVisible()
	}
}

// Draw emits the panel widgets when the panel is visible.
func (p *Panel) Draw() {
	if !p.set.Visible() {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(12, 12), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 0), imgui.CondFirstUseEver)
	open := true
	if imgui.BeginV("Controls", &open, imgui.WindowFlagsAlwaysAutoResize) {
		for _, f := range p.fields {
			switch f.Kind {
			case params.KindScalar:
				p.slider(f)
			case params.KindColor:
				p.picker(f)
			}
		}
		imgui.Separator()
		if imgui.Button("Reset") {
			p.reset()
		}
	}
	imgui.End()

	if !open {
		p.set.SetVisible(false)
	}
}

func (p *Panel) slider(f params.Field) {
	v, err := p.set.Get(f.Name)
	if err != nil {
		return
	}
	if imgui.SliderFloatV(f.Name, &v, f.Min, f.Max, SliderFormat(f.Step), imgui.SliderFlagsAlwaysClamp) {
		if _, err := p.set.Set(f.Name, v); err != nil {
			p.log.Warn("slider write rejected", zap.String("field", f.Name), zap.Error(err))
		}
	}
}

func (p *Panel) picker(f params.Field) {
	c, err := p.set.Color(f.Name)
	if err != nil {
		return
	}
	col := [3]float32{c.R, c.G, c.B}
	if imgui.ColorEdit3(f.Name, &col) {
		if err := p.set.SetColorRGB(f.Name, params.Color{R: col[0], G: col[1], B: col[2]}); err != nil {
			p.log.Warn("color write rejected", zap.String("field", f.Name), zap.Error(err))
		}
	}
}

func (p *Panel) reset() {
	for _, f := range p.fields {
		var err error
		switch f.Kind {
		case params.KindScalar:
			_, err = p.set.Set(f.Name, f.Default)
		case params.KindColor:
			err = p.set.SetColor(f.Name, f.DefaultHex)
		}
		if err != nil {
			p.log.Warn("reset failed", zap.String("field", f.Name), zap.Error(err))
		}
	}
}
