package still

import (
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/seascape/internal/engine/camera"
	"github.com/Faultbox/seascape/internal/engine/surface"
	"github.com/Faultbox/seascape/internal/engine/wave"
	"github.com/Faultbox/seascape/internal/params"
	"github.com/Faultbox/seascape/pkg/math"
)

var clearColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	grid, err := surface.NewGrid(surface.DefaultSize, 32)
	if err != nil {
		t.Fatal(err)
	}
	cam := camera.New(75, 4.0/3.0, 0.1, 100)
	// Looking down at the plane from outside the swell, so the lower frame
	// is always surface and the top rows always sky.
	cam.Position = math.Vec3{Y: 3, Z: 5}
	cam.LookAt(math.Vec3{})
	return &Renderer{Width: 64, Height: 48, Grid: grid, Camera: cam, Clear: clearColor}
}

// waterPixels returns every pixel not left at the clear color.
func waterPixels(img *image.RGBA) []color.RGBA {
	var out []color.RGBA
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c != clearColor {
				out = append(out, c)
			}
		}
	}
	return out
}

func TestRenderCoversLowerFrame(t *testing.T) {
	r := newRenderer(t)
	img := r.Render(params.Defaults())

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
		for x := 0; x < 64; x++ {
		if img.RGBAAt(x, 47) == clearColor {
			t.Fatalf("bottom row pixel %d shows background", x)
		}
	}
	if len(waterPixels(img)) == 64*48 {
		t.Error("expected some background above the horizon")
	}
}

func TestFlatPlaneIsUniform(t *testing.T) {
	r := newRenderer(t)
	v := params.Defaults()
	v.WaveElevation = 0
	v.SmallWaveElevation = 0
	v.Time = 12.5

	want := toRGBA(wave.Shade(0, &v))
	pixels := waterPixels(r.Render(v))
	if len(pixels) == 0 {
		t.Fatal("no surface pixels rendered")
	}
	for _, c := range pixels {
		if c != want {
			t.Fatalf("flat surface pixel %v, want uniform %v", c, want)
		}
	}
}

func TestZeroMultiplierShowsDepthColor(t *testing.T) {
	r := newRenderer(t)
	v := params.Defaults()
	v.ColorMultiplier = 0

	want := toRGBA(v.DepthColor)
	for _, c := range waterPixels(r.Render(v)) {
		if c != want {
			t.Fatalf("pixel %v, want depth color %v", c, want)
		}
	}
}

func TestAnimationChangesFrame(t *testing.T) {
	r := newRenderer(t)
	v := params.Defaults()

	a := r.Render(v)
	v.Time = 1.7
	b := r.Render(v)

	same := true
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("frames at different times should differ")
	}
}

func TestBackgroundStretched(t *testing.T) {
	r := newRenderer(t)
	bg := image.NewRGBA(image.Rect(0, 0, 2, 2))
	sky := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			bg.SetRGBA(x, y, sky)
		}
	}
	r.Background = bg

	img := r.Render(params.Defaults())
	if got := img.RGBAAt(32, 0); got != sky {
		t.Errorf("top pixel = %v, want sky %v", got, sky)
	}
}

func TestToRGBAClamps(t *testing.T) {
	got := toRGBA(params.Color{R: 1.7, G: -0.3, B: 0.5})
	want := color.RGBA{R: 255, G: 0, B: 128, A: 255}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}
